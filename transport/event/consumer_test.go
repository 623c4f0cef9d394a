package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduler/config"
	"scheduler/infras/kafka"
	kafkaMocks "scheduler/infras/kafka/mocks"
	notificationMocks "scheduler/internal/domains/notification/mocks"
	"scheduler/transport/event"
)

func TestConsumer_Run(t *testing.T) {
	newConfig := func(enable bool) *config.Config {
		cfg := &config.Config{}
		cfg.Kafka.Enable = enable
		cfg.Kafka.Topic = "booking.notifications"
		cfg.Kafka.ConsumerGroup = "scheduler-notifier"

		return cfg
	}

	t.Run("disabled kafka", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		consumer := event.New(newConfig(false), kafkaMocks.NewMockClient(ctrl), notificationMocks.NewMockNotifier(ctrl))

		assert.Error(t, consumer.Run(context.Background()))
	})

	t.Run("reader failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		client.EXPECT().Consume(gomock.Any(), "scheduler-notifier", "booking.notifications", gomock.Any()).Return(errors.New("broker gone"))
		client.EXPECT().Close().Return(nil)

		consumer := event.New(newConfig(true), client, notificationMocks.NewMockNotifier(ctrl))

		assert.ErrorContains(t, consumer.Run(context.Background()), "broker gone")
	})

	t.Run("cancelled context is a clean stop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		ctx, cancel := context.WithCancel(context.Background())

		client.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _, _ string, _ kafka.Handler) error {
				cancel()

				return ctx.Err()
			})
		client.EXPECT().Close().Return(nil)

		consumer := event.New(newConfig(true), client, notificationMocks.NewMockNotifier(ctrl))

		require.NoError(t, consumer.Run(ctx))
	})
}
