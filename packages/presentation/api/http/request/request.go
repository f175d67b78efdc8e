package request

import (
	"flashauction/packages/common/logger"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var requestLogger = logger.NewSource("REQUEST", logger.Default)

const metaKey = "req_meta"

func newMeta(req *http.Request, res *echo.Response) logger.Meta {
	meta := logger.Meta{
		"addr":       req.RemoteAddr,
		"method":     req.Method,
		"path":       req.URL.Path,
		"user_agent": req.UserAgent(),
	}

	// Set by RequestID middleware if it was applied before this one
	if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
		meta["request_id"] = id
	}

	return meta
}

// This middleware must be applied to the router
// for the all functions in this package to work correctly.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Set(metaKey, newMeta(ctx.Request(), ctx.Response()))

		return next(ctx)
	}
}

// Retrieves metadata from the context.
// Will panic if request.Middleware wasn't applied to the router.
func GetMetadata(ctx echo.Context) logger.Meta {
	switch m := ctx.Get(metaKey).(type) {
	case logger.Meta:
		return m
	case nil:
		requestLogger.Panic(
			"Failed to get metadata from context",
			"Request meta wasn't set (check if middleware applied correctly)",
			newMeta(ctx.Request(), ctx.Response()),
		)
		return nil
	default:
		requestLogger.Panic(
			"Failed to get metadata from context",
			fmt.Sprintf("Request meta has invalid type. Expected logger.Meta, but got %T", m),
			newMeta(ctx.Request(), ctx.Response()),
		)
		return nil
	}
}

// Converts query params into the map accepted by entities' PrepareQueryData().
// Only the first value of each param is used.
func QueryParams(ctx echo.Context) map[string]any {
	params := map[string]any{}

	for key, values := range ctx.QueryParams() {
		if len(values) != 0 {
			params[key] = values[0]
		}
	}

	return params
}
