// Package health provides liveness and readiness probes.
//
// [LivenessHandler] always answers OK. [ReadinessHandler] runs a set of named
// [Checks] concurrently under a shared timeout and answers 503 if any fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "mail":  mailer.Verify,
//	    "redis": redis.Healthcheck(client),
//	}))
//
// Responses are plain text unless the client asks for JSON with
// "Accept: application/json" or "?format=json".
package health
