// Authentication of requests made on behalf of Supabase users.
package authn

import (
	Error "flashauction/packages/common/errors"
	"flashauction/packages/infrastructure/token"
	"net/http"
	"strings"
)

var InvalidAuthorizationHeader = Error.NewStatusError(
	"Authorization header has invalid format. Expected token bearer format. ('Bearer <token>')",
	http.StatusUnauthorized,
)

var InsufficientRole = Error.NewStatusError(
	"You don't have permission to perform this action",
	http.StatusForbidden,
)

// Verified requester
type Principal struct {
	UserID string
	Role   string
	// Raw access token, forwarded to the stores which authorize requests themselves
	Token string
}

// Extracts token from "Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", Error.StatusUnauthorized
	}

	scheme, tokenStr, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", InvalidAuthorizationHeader
	}

	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" || strings.Contains(tokenStr, " ") {
		return "", InvalidAuthorizationHeader
	}

	return tokenStr, nil
}

// Verifies access token from the Authorization header value.
func Authenticate(header string, secret []byte) (*Principal, error) {
	tokenStr, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := token.Parse(tokenStr, secret)
	if err != nil {
		return nil, err
	}

	return &Principal{
		UserID: claims.Subject,
		Role:   claims.Role,
		Token:  tokenStr,
	}, nil
}

// Returns InsufficientRole if principal has none of the roles.
func (p *Principal) RequireRole(roles ...string) error {
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return InsufficientRole
}
