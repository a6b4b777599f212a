package contact

import (
	"net/http"

	"github.com/dmitrymomot/contact-relay/internal"
	"github.com/dmitrymomot/contact-relay/middlewares"
	"github.com/dmitrymomot/contact-relay/pkg/validator"
)

// MsgInternal is returned for any error that carries no public message.
const MsgInternal = "Internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message"`
	Errors  []validator.ValidationError `json:"errors,omitempty"`
}

// ErrorHandler renders handler errors as ErrorResponse.
// HTTPErrors keep their status and message; validation failures add the
// per-field errors. Anything else is a 500 whose cause is only logged.
func ErrorHandler(c internal.Context, err error) error {
	httpErr := internal.AsHTTPError(err)
	if httpErr == nil {
		logFailure(c, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: MsgInternal})
	}

	if httpErr.Code >= http.StatusInternalServerError {
		logFailure(c, err)
	}

	resp := ErrorResponse{Message: httpErr.Message}
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		resp.Errors = ve
	}
	if resp.Message == "" {
		resp.Message = http.StatusText(httpErr.Code)
	}
	return c.JSON(httpErr.Code, resp)
}

// NotFound answers unmatched routes and methods.
func NotFound(c internal.Context) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Message: "Route " + c.Request().RequestURI + " not found",
	})
}

func logFailure(c internal.Context, err error) {
	attrs := []any{"error", err}
	if kind := middlewares.Failure(err); kind != "" {
		attrs = append(attrs, "failure", kind)
	}
	c.LogError("request failed", attrs...)
}
