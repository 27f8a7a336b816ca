package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/benderblog/cp16/internal/config"
	"github.com/benderblog/cp16/internal/handler"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadServer()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	font, err := cfg.LoadFont()
	if err != nil {
		logger.Fatal("failed to load font", zap.Error(err))
	}
	if !config.IsPreset(cfg.SampleRate) {
		logger.Warn("default sample rate is not a common one", zap.Int("sampleRate", cfg.SampleRate))
	}
	logger.Info("cp16-server starting",
		zap.String("listen", cfg.ListenAddr),
		zap.Int("sampleRate", cfg.SampleRate),
		zap.Int("startFreq", cfg.StartFreq),
		zap.Int("step", cfg.Step),
		zap.String("font", cfg.Font),
		zap.String("fontFile", cfg.FontFile),
	)

	h := handler.NewHandlers(cfg, font, logger)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.NewRouter(h, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
