package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dzikiwschod/clubapp/internal/client/cli"
	"github.com/dzikiwschod/clubapp/internal/client/config"
	"github.com/dzikiwschod/clubapp/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
