package main

import (
	"context"
	"os"
	"os/signal"
	"scheduler/config"
	"scheduler/di"
	"scheduler/shared/logger"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := di.InitializeConsumer().Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Notification consumer failed")
	}
}
