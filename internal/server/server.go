// Package server boots the whole service: configuration, stores, cache,
// storage disks, the middleware stack and the HTTP listener with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/tienda/app/controllers"
	"github.com/shashiranjanraj/tienda/app/routes"
	"github.com/shashiranjanraj/tienda/app/services"
	"github.com/shashiranjanraj/tienda/app/store"
	"github.com/shashiranjanraj/tienda/config"
	"github.com/shashiranjanraj/tienda/pkg/cache"
	"github.com/shashiranjanraj/tienda/pkg/logger"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
	"github.com/shashiranjanraj/tienda/pkg/middleware"
	"github.com/shashiranjanraj/tienda/pkg/reqid"
	"github.com/shashiranjanraj/tienda/pkg/router"
	"github.com/shashiranjanraj/tienda/pkg/storage"
)

// Services is the wired application, shared by the serve and seed commands.
type Services struct {
	Catalog *services.CatalogService
	Carts   *services.CartService
}

// Bootstrap loads configuration and connects every backing component.
func Bootstrap(ctx context.Context) (*Services, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}
	storage.Connect()

	products, carts, err := store.FromConfig(ctx)
	if err != nil {
		return nil, err
	}
	catalog := services.NewCatalog(products, services.UniqueCodesFromConfig())
	return &Services{
		Catalog: catalog,
		Carts:   services.NewCart(carts, products),
	}, nil
}

// NewRouter assembles the middleware stack and mounts every route.
func NewRouter(svc *Services) (*router.Router, error) {
	gc, err := controllers.NewGraphQL(svc.Catalog, svc.Carts)
	if err != nil {
		return nil, err
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProduct(svc.Catalog),
		Carts:    controllers.NewCart(svc.Carts),
		Realtime: controllers.NewRealtime(svc.Catalog),
		GraphQL:  gc,
	})
	return r, nil
}

// Start runs the listener until SIGINT/SIGTERM, then drains in-flight
// requests for up to ten seconds.
func Start(ctx context.Context) error {
	svc, err := Bootstrap(ctx)
	if err != nil {
		return err
	}
	r, err := NewRouter(svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + config.AppPort(),
		Handler:      r.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("tienda listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("tienda stopped")
	return nil
}
