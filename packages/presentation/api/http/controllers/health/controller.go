package healthcontroller

import (
	"context"
	"flashauction/packages/common/logger"
	controller "flashauction/packages/presentation/api/http/controllers"
	"flashauction/packages/presentation/api/http/response"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Dependency, which availability defines service readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

type Controller struct {
	deps    map[string]Pinger
	timeout time.Duration
}

// Each of deps is checked on readiness probe.
func New(deps map[string]Pinger) *Controller {
	return &Controller{deps: deps, timeout: time.Second * 2}
}

type check struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// GET /health
func (c *Controller) Health(ctx echo.Context) error {
	return response.Success(ctx, http.StatusOK, "Service is healthy.", nil)
}

// GET /health/liveness
func (c *Controller) Liveness(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}

// GET /health/readiness
func (c *Controller) Readiness(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), c.timeout)
	defer cancel()

	checks := make([]check, 0, len(c.deps))
	ready := true

	for name, dep := range c.deps {
		result := check{Name: name, OK: true}

		if err := dep.Ping(reqCtx); err != nil {
			ready = false
			result.OK = false
			result.Error = err.Error()
			controller.Logger.Warning("Readiness check failed: "+name, logger.Meta{"error": err.Error()})
		}

		checks = append(checks, result)
	}

	if !ready {
		return ctx.JSON(http.StatusServiceUnavailable, response.Body{
			Status:  response.StatusError,
			Message: "Service isn't ready.",
			Data:    checks,
		})
	}

	return response.Success(ctx, http.StatusOK, "Service is ready.", checks)
}
