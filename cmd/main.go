package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/app"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/config"
)

func main() {
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	server, err := app.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	if err := server.Run(cfg.HTTP.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
