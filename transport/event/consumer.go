package event

import (
	"context"
	"fmt"
	"scheduler/config"
	"scheduler/infras/kafka"
	notificationService "scheduler/internal/domains/notification/service"

	"github.com/rs/zerolog/log"
)

// Consumer mails the notifications published on the notification topic.
type Consumer struct {
	Config   *config.Config
	Kafka    kafka.Client
	Notifier notificationService.Notifier
}

func New(cfg *config.Config, client kafka.Client, notifier notificationService.Notifier) *Consumer {
	return &Consumer{
		Config:   cfg,
		Kafka:    client,
		Notifier: notifier,
	}
}

// Run blocks until ctx is cancelled or the reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	if !c.Config.Kafka.Enable {
		return fmt.Errorf("kafka is disabled, nothing to consume")
	}

	defer func() {
		if err := c.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka client")
		}
	}()

	log.Info().Str("topic", c.Config.Kafka.Topic).Str("group", c.Config.Kafka.ConsumerGroup).Msg("Starting notification consumer.")

	if err := c.Kafka.Consume(ctx, c.Config.Kafka.ConsumerGroup, c.Config.Kafka.Topic, c.Notifier.Handle); err != nil && ctx.Err() == nil {
		return fmt.Errorf("notification consumer stopped: %w", err)
	}

	log.Info().Msg("Notification consumer stopped.")

	return nil
}
