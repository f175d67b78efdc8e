package middleware

import (
	"flashauction/packages/presentation/api/http/request"
	"flashauction/packages/presentation/api/http/response"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type RateLimiter struct {
	// Used to identify clients, default is the real IP of the request
	IdentifierExtractor middleware.Extractor
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{IdentifierExtractor: realIP}
}

func realIP(ctx echo.Context) (string, error) {
	return ctx.RealIP(), nil
}

func denyHandler(window time.Duration) func(ctx echo.Context, id string, err error) error {
	retryAfter := max(1, int(window.Seconds()))

	return func(ctx echo.Context, id string, err error) error {
		ctx.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))

		switch GetSensivity(ctx) {
		case InsignificantEndpoint:
			log.Trace("Request blocked by rate limiter", request.GetMetadata(ctx))
		case DefaultEndpoint:
			log.Info("Request blocked by rate limiter", request.GetMetadata(ctx))
		case SensitiveEndpoint:
			log.Warning("Request blocked by rate limiter", request.GetMetadata(ctx))
		}

		return response.Fail(ctx, http.StatusTooManyRequests, "Too many requests")
	}
}

func (l *RateLimiter) limit(r rate.Limit, burst int, window time.Duration) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      r,
			Burst:     burst,
			ExpiresIn: window * 2,
		}),
		DenyHandler:         denyHandler(window),
		IdentifierExtractor: l.IdentifierExtractor,
	})
}

func (l *RateLimiter) Max5reqPerMinute() echo.MiddlewareFunc {
	window := time.Minute
	return l.limit(rate.Every(window/5), 3, window)
}

func (l *RateLimiter) Max10reqPerSecond() echo.MiddlewareFunc {
	return l.limit(10, 5, time.Second)
}
