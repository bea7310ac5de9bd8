package quest

import (
	"errors"
	"strings"
)

// Domain-specific errors for the quest package.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError aggregates every violated constraint of a request, not just
// the first one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid parameters: " + strings.Join(e.Violations, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
