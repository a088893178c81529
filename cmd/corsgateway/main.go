package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/finvolv/lendingplatform/internal/shared/application"
	sharedhttp "github.com/finvolv/lendingplatform/internal/shared/interfaces/http"
	"github.com/finvolv/lendingplatform/internal/shared/infrastructure/persistence/postgres"
	"github.com/finvolv/lendingplatform/pkg/config"
	"github.com/finvolv/lendingplatform/pkg/db"
	"github.com/finvolv/lendingplatform/pkg/logger"
	"github.com/finvolv/lendingplatform/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/corsgateway.toml", "path to the TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "corsgateway: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		WithCaller: cfg.Log.WithCaller,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close()

	corsRepo := postgres.NewCorsConfigRepository(database.DB)
	corsService := application.NewCorsService(
		cfg.Cors.Service,
		corsRepo,
		time.Duration(cfg.Cors.LookupTimeout)*time.Millisecond,
		logger.Get(),
	)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Recovery())
	if cfg.HTTP.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitBurst, cfg.HTTP.RateLimitPerSecond)
		router.Use(middleware.RateLimit(limiter))
	}
	router.Use(sharedhttp.DynamicCors(corsService))

	sharedhttp.NewCorsAdminHandler(corsService).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "cors gateway listening",
			"addr", server.Addr,
			"cors_service", cfg.Cors.Service)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(context.Background(), "cors gateway stopped")
	return nil
}
