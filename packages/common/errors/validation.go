package errs

import (
	"net/http"
)

// Do not create new instances of this error,
// instead use NoValue and InvalidValue sentinel errors.
type Validation struct {
	message string
}

func (e *Validation) Error() string {
	return e.message
}

// Converts Validation error to Status error.
// Returned error will have "Unprocessable Entity" status.
// Panics if error is neither NoValue nor InvalidValue.
func (e *Validation) ToStatus(noValueMsg string, invalidValueMsg string) *Status {
	if e == NoValue {
		return NewStatusError(noValueMsg, http.StatusUnprocessableEntity)
	}
	if e == InvalidValue {
		return NewStatusError(invalidValueMsg, http.StatusUnprocessableEntity)
	}
	panic("Invalid validation error: Expected NoValue or InvalidValue")
}

func newValidationError(message string) *Validation {
	return &Validation{message}
}

var NoValue = newValidationError("validation error: no value")
var InvalidValue = newValidationError("validation error: invalid value")
