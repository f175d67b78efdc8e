package util

import (
	"math"
	"strconv"
)

// Ternary operator.
// If 'cond' is true then returns 'a', otherwise returns 'b'
func Ternary[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}

	return b
}

// Converts numeric value received from the store or a request
// (numbers may arrive as strings) into float64.
// NaN and infinities are rejected, they can't be encoded as JSON.
func ToFloat(v any) (float64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
