// Package validator provides rule-based validation with aggregated errors.
//
// Rules are plain values built by constructor functions and evaluated by
// [Apply]. Every field is checked in one pass; once a rule fails for a field,
// the remaining rules for that same field are skipped so each field reports
// at most one error.
//
//	err := validator.Apply(
//	    validator.RequiredString("name", name),
//	    validator.MinLenString("name", name, 2),
//	    validator.ValidEmail("email", email),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//	    // render ve
//	}
package validator

// Rule is a single deferred check bound to a field.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// WithMessage returns a copy of the rule with a custom message.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	return r
}

// Apply evaluates rules in order and returns ValidationErrors when any fail.
// It returns nil when every rule passes.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	failed := make(map[string]struct{})

	for _, rule := range rules {
		if _, ok := failed[rule.Error.Field]; ok {
			continue
		}
		if rule.Check == nil || rule.Check() {
			continue
		}
		failed[rule.Error.Field] = struct{}{}
		errs = append(errs, rule.Error)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
