package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carlosmendieta/modique-backend/api/routes"
	cartsvc "github.com/carlosmendieta/modique-backend/internal/cart"
	ordersvc "github.com/carlosmendieta/modique-backend/internal/orders"
	"github.com/carlosmendieta/modique-backend/internal/orders/numbering"
	"github.com/carlosmendieta/modique-backend/internal/payments"
	product "github.com/carlosmendieta/modique-backend/internal/products"
	usersvc "github.com/carlosmendieta/modique-backend/internal/users"
	wishlistsvc "github.com/carlosmendieta/modique-backend/internal/wishlist"
	"github.com/carlosmendieta/modique-backend/pkg/auth/session"
	"github.com/carlosmendieta/modique-backend/pkg/config"
	"github.com/carlosmendieta/modique-backend/pkg/db"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/migrate"
	"github.com/carlosmendieta/modique-backend/pkg/outbox"
	"github.com/carlosmendieta/modique-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	productRepo := product.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	cartService, err := cartsvc.NewService(cartsvc.NewRepository(gormDB), productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	numberSource, err := numbering.NewCounterSource(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create order number source", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(
		ordersvc.NewRepository(gormDB),
		productRepo,
		numberSource,
		dbClient,
		outboxService,
		payments.NewStubGateway(),
		cfg.Shipping.MaxFeeCents,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlistsvc.NewService(wishlistsvc.ServiceParams{
		WishlistRepo: wishlistsvc.NewRepository(gormDB),
		ProductRepo:  productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	userService, err := usersvc.NewService(usersvc.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			gormDB,
			redisClient,
			sessionManager,
			cartService,
			orderService,
			wishlistService,
			userService,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
