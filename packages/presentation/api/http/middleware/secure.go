package middleware

import (
	"flashauction/packages/common/logger"
	"flashauction/packages/infrastructure/auth/authn"
	"flashauction/packages/presentation/api/http/request"

	"github.com/labstack/echo/v4"
)

var log = logger.NewSource("MIDDLEWARE", logger.Default)

const principalKey = "principal"

func toHTTPError(err error) error {
	if status, ok := err.(interface{ Status() int }); ok {
		return echo.NewHTTPError(status.Status(), err.Error())
	}
	return err
}

// Allows access only for requests with valid access token.
func Secure(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			reqMeta := request.GetMetadata(ctx)

			log.Debug("Route "+ctx.Request().Method+" "+ctx.Path()+" is secured", reqMeta)
			log.Trace("Authenticating request...", reqMeta)

			principal, err := authn.Authenticate(ctx.Request().Header.Get(echo.HeaderAuthorization), secret)
			if err != nil {
				ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
				log.Trace("Authentication failed: "+err.Error(), reqMeta)
				return toHTTPError(err)
			}

			ctx.Set(principalKey, principal)

			reqMeta["user_id"] = principal.UserID

			log.Trace("Authenticating request: OK", reqMeta)

			return next(ctx)
		}
	}
}

// Allows access only for principals with one of the roles.
// Route must be secured via Secure middleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := GetPrincipal(ctx).RequireRole(roles...); err != nil {
				log.Warning("Access denied: "+err.Error(), request.GetMetadata(ctx))
				return toHTTPError(err)
			}
			return next(ctx)
		}
	}
}

// Can be used only on routes secured via Secure middleware, otherwise will cause panic.
func GetPrincipal(ctx echo.Context) *authn.Principal {
	principal, ok := ctx.Get(principalKey).(*authn.Principal)
	if !ok {
		log.Panic(
			"Failed to get principal",
			"Principal wasn't found in request context, check if Secure middleware applied correctly",
			request.GetMetadata(ctx),
		)
		return nil
	}
	return principal
}
