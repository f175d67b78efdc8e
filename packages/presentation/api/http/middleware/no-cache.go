package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Sets Cache-Control header of responses.
func CacheControl(directives string) echo.MiddlewareFunc {
	noStore := strings.Contains(directives, "no-store")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Response().Header()

			header.Set(echo.HeaderCacheControl, directives)
			// For HTTP/1.0 caches
			if noStore {
				header.Set("Pragma", "no-cache")
				header.Set("Expires", "0")
			}

			return next(ctx)
		}
	}
}

// Prevents caching of authenticated and volatile responses at transport layer.
var NoCache = CacheControl("no-store, max-age=0")

// Responses may be stored, but must be revalidated before reuse.
var Revalidate = CacheControl("no-cache")
