package validation

import "fmt"

// Result is the outcome of a validation: a validity flag and a human-readable
// reason.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// OK builds a successful Result.
func OK(message string) Result {
	return Result{Valid: true, Message: message}
}

// Failf builds a failed Result with a formatted reason.
func Failf(format string, args ...interface{}) Result {
	return Result{Valid: false, Message: fmt.Sprintf(format, args...)}
}

// Err converts a failed Result into an error, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("validation failed: %s", r.Message)
}
