package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/jeswanthsaravanan/smartcampus/application"
	"github.com/jeswanthsaravanan/smartcampus/config"
	"github.com/jeswanthsaravanan/smartcampus/logger"
)

func main() {
	logr := logger.GetInstance()

	cfg, err := config.Load()
	if err != nil {
		logr.Fatalf("config load failed: %v", err)
	}

	if err := logr.Initialize(cfg.LogDir, logger.ParseLevel(cfg.LogLevel)); err != nil {
		logr.Fatalf("logger initialization failed: %v", err)
	}

	logr.Infof("Portal starting. Env=%s LogLevel=%s", cfg.Env, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := application.NewApplication()
	if err := app.Configure(cfg, logr); err != nil {
		logr.Fatalf("configuration failed: %v", err)
	}
	if err := app.Run(ctx); err != nil {
		logr.Fatalf("server failed: %v", err)
	}

	logr.Info("Portal stopped")
}
