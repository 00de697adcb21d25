package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/HealthConnect/internal/config"
	"github.com/Skufu/HealthConnect/internal/diagnosis"
	"github.com/Skufu/HealthConnect/internal/llm"
	"github.com/Skufu/HealthConnect/internal/server"
	"github.com/Skufu/HealthConnect/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)
	logger := cfg.NewLogger()

	ctx := context.Background()

	engine, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("diagnosis engine setup failed")
	}

	var db server.HealthChecker
	if cfg.EnableDB {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Fatal("database connection failed")
		}
		defer pool.Close()
		db = pool
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = server.DetectStaticDir()
	}

	handler := server.NewHandler(engine, db, logger)
	router := server.NewRouter(handler, staticDir, logger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.AITimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":       cfg.Addr(),
		"ai_enabled": engine.AIEnabled(),
		"db_enabled": cfg.EnableDB,
		"static_dir": staticDir,
	}).Info("server listening")
	waitForShutdown(srv, logger)
}

// buildEngine never fails because of the AI provider: a provider that cannot
// be created leaves the engine in knowledge-base mode.
func buildEngine(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*diagnosis.Engine, error) {
	kb, err := diagnosis.DefaultKnowledgeBase()
	if err != nil {
		return nil, err
	}

	opts := []diagnosis.Option{
		diagnosis.WithLogger(logger),
		diagnosis.WithAITimeout(cfg.AITimeout),
	}

	if lc, ok := cfg.LLM(); ok {
		client, err := llm.New(ctx, lc)
		if err != nil {
			logger.WithError(err).Warn("AI provider unavailable, using knowledge base only")
		} else {
			logger.WithField("provider", client.Name()).Info("AI diagnosis enabled")
			opts = append(opts, diagnosis.WithCompleter(client))
		}
	}

	return diagnosis.NewEngine(kb, opts...), nil
}

func waitForShutdown(srv *http.Server, logger logrus.FieldLogger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
