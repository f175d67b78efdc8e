package validation

import (
	Error "flashauction/packages/common/errors"
	"math"
)

// Returns nil if 'v' is finite and greater than zero.
func PositiveAmount(v float64) *Error.Validation {
	if v == 0 {
		return Error.NoValue
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Error.InvalidValue
	}
	return nil
}
