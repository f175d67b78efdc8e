package token

import (
	Error "flashauction/packages/common/errors"
	"net/http"
)

// All token errors are 401: according to RFC 7235 (https://datatracker.ietf.org/doc/html/rfc7235#section-3.1)
// the response indicates that the request lacks VALID authentication credentials,
// no matter if token is invalid or missing.

var TokenMalformed = Error.NewStatusError(
	"Token is malformed or has invalid format",
	http.StatusUnauthorized,
)

var TokenExpired = Error.NewStatusError(
	"Token expired",
	http.StatusUnauthorized,
)

var TokenNotValidYet = Error.NewStatusError(
	"Token isn't valid yet",
	http.StatusUnauthorized,
)

var TokenInvalidSignature = Error.NewStatusError(
	"Invalid Token Signature",
	http.StatusUnauthorized,
)

var TokenMissingRequiredClaims = Error.NewStatusError(
	"At least one of required token claims is missing",
	http.StatusUnauthorized,
)

func IsTokenError(err error) bool {
	return err == TokenMalformed ||
		err == TokenExpired ||
		err == TokenNotValidYet ||
		err == TokenInvalidSignature ||
		err == TokenMissingRequiredClaims
}
