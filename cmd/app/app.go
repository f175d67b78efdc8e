package app

import (
	"context"
	"errors"
	"flashauction/packages/presentation/api/http/router"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
)

// Serves HTTP until SIGINT or SIGTERM is received. SIGHUP reloads config.
func (a *App) Start(deps *router.Dependencies) {
	Router := router.Create(deps)

	signals := make(chan os.Signal, 1)

	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	serverErr := make(chan error, 1)

	go func() {
		serverErr <- a.listen(Router)
	}()

	a.printAppInfo()

	for {
		select {
		case err := <-serverErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("HTTP server failed", err.Error(), nil)
			}
			a.Shutdown()
			return
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				appLogger.Info("SIGHUP received, reloading config...", nil)
				// Failure is logged by the config manager, previous config stays in use
				_ = a.Config.Reload()
				continue
			}

			appLogger.Info(sig.String()+" signal received, shutting down...", nil)

			a.stop(Router)
			return
		}
	}
}

func (a *App) listen(Router *echo.Echo) error {
	address := ":" + a.Config.Current().HTTP().Port

	if a.Config.Current().HTTP().Secured {
		return Router.StartTLS(address, "cert.pem", "key.pem")
	}
	return Router.Start(address)
}

func (a *App) stop(Router *echo.Echo) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := Router.Shutdown(ctx); err != nil {
		appLogger.Error("Failed to stop HTTP server", err.Error(), nil)
	} else {
		appLogger.Info("HTTP server stopped", nil)
	}

	a.Shutdown()
}

func (a *App) printAppInfo() {
	cfg := a.Config.Current()

	fmt.Print(`

  ███████╗ ██╗      █████╗  ███████╗ ██╗  ██╗
  ██╔════╝ ██║     ██╔══██╗ ██╔════╝ ██║  ██║
  █████╗   ██║     ███████║ ███████╗ ███████║
  ██╔══╝   ██║     ██╔══██║ ╚════██║ ██╔══██║
  ██║      ███████╗██║  ██║ ███████║ ██║  ██║
  ╚═╝      ╚══════╝╚═╝  ╚═╝ ╚══════╝ ╚═╝  ╚═╝

`)

	fmt.Println("  Flash auctions service")

	fmt.Printf("  Store driver: %s\n", cfg.Store().Driver)

	fmt.Printf("  Listening on port: %s\n\n", cfg.HTTP().Port)

	if cfg.Debug().Enabled {
		appLogger.Warning("Debug mode enabled.", nil)
		print("\n\n")
	}
}
