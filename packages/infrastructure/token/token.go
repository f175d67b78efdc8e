// Access tokens issued by Supabase Auth (HS256, signed with the project's JWT secret).
package token

import (
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var tokenLogger = logger.NewSource("TOKEN", logger.Default)

const (
	UserIdClaimsKey    = "sub"
	RoleClaimsKey      = "role"
	ExpiresAtClaimsKey = "exp"
)

// Roles assigned by Supabase
const (
	AuthenticatedRole = "authenticated"
	ServiceRole       = "service_role"
)

type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`

	jwt.RegisteredClaims
}

var parserOptions = []jwt.ParserOption{
	jwt.WithLeeway(5 * time.Second),
	jwt.WithExpirationRequired(),
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
}

func hmacKeyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

// Parses and validates given token.
// Returns one of the token errors if token can't be trusted.
func Parse(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	if _, err := jwt.ParseWithClaims(tokenStr, claims, hmacKeyFunc(secret), parserOptions...); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, TokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, TokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, TokenNotValidYet
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, TokenInvalidSignature
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, TokenMissingRequiredClaims
		default:
			tokenLogger.Error("Failed to parse signed token", err.Error(), nil)
			return nil, Error.StatusUnauthorized
		}
	}

	if claims.Subject == "" {
		return nil, TokenMissingRequiredClaims
	}

	return claims, nil
}

// Signs claims with HS256. Used to issue service tokens.
func Sign(claims *Claims, secret []byte) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		tokenLogger.Error("Failed to sign token", err.Error(), nil)
		return "", err
	}
	return signed, nil
}
