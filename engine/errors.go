package engine

import "errors"

var (
	ErrMatchNotFound     = errors.New("match not found in tournament")
	ErrCourtNotFound     = errors.New("court not found in tournament")
	ErrCourtNotAvailable = errors.New("court is not available")
)

// ValidationResult collects every reason a structural or stage validation
// failed so callers surface all of them at once.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func (v *ValidationResult) Add(reason string) {
	v.Valid = false
	v.Errors = append(v.Errors, reason)
}

func OKResult() ValidationResult {
	return ValidationResult{Valid: true}
}
