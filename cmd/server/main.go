package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"execution-os/internal/config"
	"execution-os/internal/handler"
	"execution-os/internal/logger"
	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/mq"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	migrate := flag.Bool("migrate", true, "auto-migrate the schema on start")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	defer logger.Sync()
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "err", err)
		os.Exit(1)
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if *migrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			logger.Error("migrate failed", "err", err)
			os.Exit(1)
		}
	}

	var events service.EventPublisher
	if cfg.MQ.URL != "" {
		pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			logger.Warn("mq disabled", "err", err)
		} else {
			defer pub.Close()
			events = pub
			logger.Info("mq publisher enabled", "exchange", cfg.MQ.Exchange)
		}
	}

	rdb := cfg.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
		logger.Info("redis dedup enabled", "addr", cfg.Redis.Addr)
	}

	coach := service.NewAIService(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AITimeout())
	streakSvc := service.NewStreakService(db)
	dailySvc := service.NewDailyService(db, streakSvc, events)
	warningSvc := service.NewWarningService(db, service.NewDeduper(rdb, service.WarningDedupWindow), events)
	goalSvc := service.NewGoalService(db)
	projectSvc := service.NewProjectService(db, coach)
	reviewSvc := service.NewReviewService(db, dailySvc, streakSvc, coach)
	todoSvc := service.NewTodoService(db)
	authSvc := service.NewAuthService(db)
	dashSvc := service.NewDashboardService(goalSvc, projectSvc, streakSvc, warningSvc, reviewSvc, dailySvc)

	tokens := middleware.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, tokens),
		Daily:     handler.NewDailyHandler(dailySvc, streakSvc),
		Dashboard: handler.NewDashboardHandler(dashSvc),
		Goal:      handler.NewGoalHandler(goalSvc),
		Project:   handler.NewProjectHandler(projectSvc),
		Review:    handler.NewReviewHandler(reviewSvc),
		Warning:   handler.NewWarningHandler(warningSvc),
		Todo:      handler.NewTodoHandler(todoSvc),
	}, tokens, cfg.Server.AllowOrigins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	if cfg.Scanner.Enabled {
		scanner := service.NewInactivityScanner(db, dailySvc, warningSvc)
		go func() {
			defer close(done)
			scanner.Run(ctx, cfg.ScanInterval())
		}()
	} else {
		close(done)
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		logger.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	<-done
	logger.Info("server stopped")
}
