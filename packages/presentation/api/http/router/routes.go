package router

import (
	"flashauction/packages/common/config"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/bid"
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/token"
	AuctionController "flashauction/packages/presentation/api/http/controllers/auction"
	BidController "flashauction/packages/presentation/api/http/controllers/bid"
	ConfigController "flashauction/packages/presentation/api/http/controllers/config"
	HealthController "flashauction/packages/presentation/api/http/controllers/health"
	ListingController "flashauction/packages/presentation/api/http/controllers/listing"
	"flashauction/packages/presentation/api/http/middleware"
	"flashauction/packages/presentation/api/http/request"
	"net/http"
	"slices"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

var log = logger.NewSource("ROUTER", logger.Default)

const rootPath = ""

const basePath = "/api/flash-auctions"

type Dependencies struct {
	Config   *config.Manager
	Listings listing.Repository
	Auctions auction.Repository
	Bids     *bid.Workflow
	// Checked by the readiness probe
	Health map[string]HealthController.Pinger
}

func initSentry(cfg *config.Manager) {
	current := cfg.Current()

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Secrets().SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: current.Sentry().TraceSampleRate,
		Debug:            current.Debug().Enabled,
		ServerName:       current.App().ServiceID,
		AttachStacktrace: true,
	}); err != nil {
		log.Panic("Sentry initialization failed", err.Error(), nil)
	}
}

func Create(deps *Dependencies) *echo.Echo {
	initSentry(deps.Config)

	cfg := deps.Config.Current()
	secret := deps.Config.Secrets().JWTSecret

	router := echo.New()

	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = handleHttpError
	router.JSONSerializer = serializer{}
	router.Binder = &binder{}

	cors := echoMiddleware.CORSConfig{
		Skipper: echoMiddleware.DefaultSkipper,
		// Read on each request, so allowed origins follow config reloads
		AllowOriginFunc: func(origin string) (bool, error) {
			return slices.Contains(deps.Config.Current().HTTP().AllowedOrigins, origin), nil
		},
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
		},
	}

	router.Use(middleware.SecurityHeaders)
	router.Use(echoMiddleware.BodyLimit("1M"))
	if cfg.HTTP().Secured {
		router.Use(echoMiddleware.HTTPSRedirect())
	}
	router.Use(echoMiddleware.CORSWithConfig(cors))
	router.Use(echoMiddleware.RequestID())
	router.Use(request.Middleware)
	router.Use(middleware.CheckOrigin(deps.Config))
	router.Use(sentryecho.New(sentryecho.Options{
		Repanic: true,
	}))

	if cfg.Debug().Enabled {
		router.Use(echoMiddleware.Logger())
	}

	secure := middleware.Secure(secret)
	limiter := middleware.NewRateLimiter()
	writeLimit := limiter.Max5reqPerMinute()

	listings := ListingController.New(deps.Listings)
	auctions := AuctionController.New(deps.Auctions)
	bids := BidController.New(deps.Bids)
	health := HealthController.New(deps.Health)
	configs := ConfigController.New(deps.Config)

	api := router.Group(basePath)

	healthGroup := api.Group("/health", middleware.NoCache, middleware.Sensivity(middleware.InsignificantEndpoint))

	healthGroup.GET(rootPath, health.Health)
	healthGroup.GET("/liveness", health.Liveness)
	healthGroup.GET("/readiness", health.Readiness)

	listingGroup := api.Group("/listings")

	listingGroup.GET(rootPath, listings.Find, middleware.Revalidate)
	listingGroup.GET("/:id", listings.FindByID, middleware.Revalidate)
	listingGroup.POST(rootPath, listings.Create, writeLimit, secure)
	listingGroup.PATCH("/:id", listings.Update, writeLimit, secure)
	listingGroup.DELETE("/:id", listings.Delete, writeLimit, secure)

	auctionGroup := api.Group("/auctions")

	auctionGroup.GET(rootPath, auctions.Find, middleware.NoCache)
	auctionGroup.POST(rootPath, auctions.Create, writeLimit, secure)

	bidGroup := api.Group("/bids", middleware.NoCache, middleware.Sensivity(middleware.SensitiveEndpoint))

	bidGroup.POST(rootPath, bids.Place, limiter.Max10reqPerSecond(), secure)

	configGroup := api.Group("/config", middleware.NoCache, secure, middleware.RequireRole(token.ServiceRole))

	configGroup.GET(rootPath, configs.Get)
	configGroup.POST("/reload", configs.Reload, middleware.Sensivity(middleware.SensitiveEndpoint))

	return router
}
