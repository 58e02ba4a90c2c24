package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dzikiwschod/clubapp/internal/logging"
	"github.com/dzikiwschod/clubapp/internal/server"
	"github.com/dzikiwschod/clubapp/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
