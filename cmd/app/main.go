package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/domain"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal("invalid config", "error", err)
	}
	service.InitJWT(cfg.JWTSecret)

	clock, err := domain.LoadClock(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid APP_TIMEZONE", "error", err)
	}
	policy, err := domain.PolicyByName(cfg.TransitionPolicy)
	if err != nil {
		logger.Fatal("invalid TRANSITION_POLICY", "error", err)
	}

	stores, err := repository.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer stores.Close()

	tasks := service.NewTaskService(stores.Tasks, policy, clock).
		WithPageSizes(cfg.DefaultPageSize, cfg.MaxPageSize)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	r := gin.New()
	r.Use(gin.Recovery())
	httpServer.RegisterRoutes(r, httpServer.Deps{
		Tasks:         tasks,
		Store:         stores.Tasks,
		Version:       cfg.AppVersion,
		APIRateLimit:  cfg.APIRateLimit,
		APIRateWindow: cfg.APIRateWindow,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SweepEnabled {
		at, _ := config.ParseClock(cfg.SweepAt)
		sweep := service.NewSweepService(stores.Tasks, policy, clock)
		scheduler := service.NewDailyScheduler(clock, at, func(ctx context.Context) {
			sweep.Run(ctx)
		})
		go scheduler.Start(ctx)
		logger.Info("daily sweep enabled", "at", cfg.SweepAt, "timezone", cfg.Timezone)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.StoreDriver, "policy", policy.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
