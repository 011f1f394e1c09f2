package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/nexus-hq/nexus-attendance/internal/client"
	"github.com/nexus-hq/nexus-attendance/internal/config"
	"github.com/nexus-hq/nexus-attendance/internal/logger"
)

func main() {
	log := logger.New("client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	app, err := client.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}
