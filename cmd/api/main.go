package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/sentimo/internal/application"
	"github.com/bryanwahyu/sentimo/internal/application/analysis"
	appchat "github.com/bryanwahyu/sentimo/internal/application/chat"
	"github.com/bryanwahyu/sentimo/internal/application/workspace"
	"github.com/bryanwahyu/sentimo/internal/config"
	"github.com/bryanwahyu/sentimo/internal/infra/ai/openai"
	"github.com/bryanwahyu/sentimo/internal/infra/httpserver"
	"github.com/bryanwahyu/sentimo/internal/logger"
	"github.com/bryanwahyu/sentimo/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sentimo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	model := openai.NewClient(openai.Options{
		APIKey:          cfg.Model.APIKey,
		BaseURL:         cfg.Model.BaseURL,
		AnalysisModel:   cfg.Model.AnalysisModel,
		ChatModel:       cfg.Model.ChatModel,
		ThinkingBudget:  cfg.Model.ThinkingBudget,
		MaxOutputTokens: cfg.Model.MaxOutputTokens,
	})

	ws := workspace.New(
		analysis.NewService(model, log, cfg.Model.AnalysisTimeout),
		appchat.NewService(model, log, cfg.Model.ChatTimeout),
		application.SystemClock{},
		log,
	)

	handler := httpserver.NewRouter(ws, log, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthCheckers: map[string]middleware.HealthChecker{
			"model": middleware.CheckFunc(model.Ping),
		},
	})

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// analysis calls with a large thinking budget take minutes
		WriteTimeout: cfg.Model.AnalysisTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("analysis_model", model.AnalysisModel),
			zap.Int("thinking_budget", cfg.Model.ThinkingBudget),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
