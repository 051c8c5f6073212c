// The apiserver binary runs the collision-detection HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/accelari/trademarkiq2-sub002/internal/app"
	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
)

// Build-time variable injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.Int("port", 0, "HTTP listen port (overrides configuration)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	application, err := app.New(cfg, logger, app.Options{Version: version})
	if err != nil {
		logger.Error("startup failed", logging.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}
