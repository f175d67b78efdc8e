package configcontroller

import (
	"flashauction/packages/common/config"
	controller "flashauction/packages/presentation/api/http/controllers"
	"flashauction/packages/presentation/api/http/request"
	"flashauction/packages/presentation/api/http/response"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	cfg *config.Manager
}

func New(cfg *config.Manager) *Controller {
	return &Controller{cfg}
}

// Config without secrets, safe to expose.
type view struct {
	StoreDriver    string   `json:"store_driver"`
	AllowedOrigins []string `json:"allowed_origins"`
	CacheTTL       string   `json:"cache_ttl"`
	QueryTimeout   string   `json:"query_timeout"`
	Debug          bool     `json:"debug"`
}

func newView(cfg *config.Config) view {
	return view{
		StoreDriver:    cfg.Store().Driver,
		AllowedOrigins: cfg.HTTP().AllowedOrigins,
		CacheTTL:       cfg.Cache().TTL().String(),
		QueryTimeout:   cfg.DB().QueryTimeout().String(),
		Debug:          cfg.Debug().Enabled,
	}
}

// GET /config
func (c *Controller) Get(ctx echo.Context) error {
	return response.Success(ctx, http.StatusOK, "Config fetched successfully.", newView(c.cfg.Current()))
}

// POST /config/reload
//
// On failure previous config stays in use.
func (c *Controller) Reload(ctx echo.Context) error {
	if err := c.cfg.Reload(); err != nil {
		controller.Logger.Error("Failed to reload config", err.Error(), request.GetMetadata(ctx))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reload config: "+err.Error())
	}

	controller.Logger.Info("Config reloaded", request.GetMetadata(ctx))

	return response.Success(ctx, http.StatusOK, "Config reloaded successfully.", newView(c.cfg.Current()))
}
