package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Status struct {
	status  int
	message string
}

func (e *Status) Error() string {
	return e.message
}

func (e *Status) Status() int {
	return e.status
}

type errorSide string

const (
	ClientSide errorSide = "client"
	ServerSide errorSide = "server"
)

// Side returns whether the status represents a client or server error.
//
// Returns ClientSide for status codes 400-499.
//
// Returns ServerSide for status codes 500-599.
//
// Panics if the status isn't in either of these ranges.
func (e *Status) Side() errorSide {
	if e.status > 399 && e.status < 500 {
		return ClientSide
	}
	if e.status > 499 && e.status < 600 {
		return ServerSide
	}
	panic(fmt.Sprintf("invalid error status range: must be between 400 and 599, but got - %d", e.status))
}

// Creates new status error.
// Status must be between 100 and 599 - any other value will cause panic.
func NewStatusError(message string, status int) *Status {
	if status < 100 || status > 599 {
		panic(fmt.Sprintf("invalid error status range: must be between 100 and 599, but got - %d", status))
	}
	return &Status{status, message}
}

// Reports whether any error in err's chain is *Status.
func IsStatusError(err error) (bool, *Status) {
	var e *Status

	if errors.As(err, &e) {
		return true, e
	}

	return false, nil
}

var StatusInternalError = NewStatusError(
	"Internal Server Error",
	http.StatusInternalServerError,
)

var StatusNotFound = NewStatusError(
	"Requested resource wasn't found",
	http.StatusNotFound,
)

var StatusTimeout = NewStatusError(
	"Operation timeout",
	http.StatusRequestTimeout,
)

var StatusUnauthorized = NewStatusError(
	"You are not authorized",
	http.StatusUnauthorized,
)

var StatusServiceUnavailable = NewStatusError(
	"Service temporarily unavailable",
	http.StatusServiceUnavailable,
)
