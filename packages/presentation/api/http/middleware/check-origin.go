package middleware

import (
	"flashauction/packages/common/config"
	"flashauction/packages/presentation/api/http/request"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// Used to prevent request forgery attacks.
// Allowed origins are read on each request, so they follow config reloads.
func CheckOrigin(cfg *config.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			if req.Method == http.MethodGet || req.Method == http.MethodHead {
				return next(ctx)
			}

			origin := req.Header.Get("Origin")

			if origin != "" && !slices.Contains(cfg.Current().HTTP().AllowedOrigins, origin) {
				log.Error("Invalid request origin", "Origin isn't allowed", request.GetMetadata(ctx))
				return echo.NewHTTPError(
					http.StatusForbidden,
					"Invalid origin",
				)
			}

			return next(ctx)
		}
	}
}
