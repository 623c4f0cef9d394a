package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduler/config"
	"scheduler/infras/kafka"
	kafkaMocks "scheduler/infras/kafka/mocks"
	"scheduler/infras/mailer"
	mailerMocks "scheduler/infras/mailer/mocks"
	otelMocks "scheduler/infras/otel/mocks"
	"scheduler/internal/domains/notification/model"
	"scheduler/internal/domains/notification/service"
)

type fixture struct {
	kafka  *kafkaMocks.MockClient
	mailer *mailerMocks.MockMailer
	svc    service.Notifier
}

func newFixture(t *testing.T, kafkaEnabled bool) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Enable = kafkaEnabled
	cfg.Kafka.Topic = "booking.notifications"

	f := fixture{
		kafka:  kafkaMocks.NewMockClient(ctrl),
		mailer: mailerMocks.NewMockMailer(ctrl),
	}
	f.svc = service.New(f.kafka, f.mailer, cfg, otelMocks.NewOtel())

	return f
}

var booking = model.Booking{
	ID:          "b-1",
	OwnerID:     "advisor-1",
	LinkTitle:   "Portfolio review",
	ClientName:  "Ada",
	ClientEmail: "ada@client.test",
	Start:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	End:         time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	Timezone:    "Europe/Paris",
}

func TestNotifier_InlineMail(t *testing.T) {
	t.Run("approval request goes to approvers with an address", func(t *testing.T) {
		f := newFixture(t, false)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m mailer.Mail) error {
			assert.Equal(t, []string{"lead@firm.test"}, m.To)
			assert.Contains(t, m.Subject, "Approval needed")
			assert.Contains(t, m.Body, "Mon 10 Mar 2025 10:00 CET")

			return nil
		})

		assert.NoError(t, f.svc.NotifyApprovalRequested(context.Background(), booking, []string{"advisor-2", "lead@firm.test"}))
	})

	t.Run("rejection carries the reason", func(t *testing.T) {
		f := newFixture(t, false)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m mailer.Mail) error {
			assert.Equal(t, []string{"ada@client.test"}, m.To)
			assert.Contains(t, m.Body, "Reason: time conflict")

			return nil
		})

		assert.NoError(t, f.svc.NotifyRejected(context.Background(), booking, "time conflict"))
	})

	t.Run("mail failure surfaces", func(t *testing.T) {
		f := newFixture(t, false)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

		assert.ErrorContains(t, f.svc.NotifyApproved(context.Background(), booking), "smtp down")
	})

	t.Run("disabled smtp is not a failure", func(t *testing.T) {
		f := newFixture(t, false)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(mailer.ErrDisabled)

		assert.NoError(t, f.svc.NotifyApproved(context.Background(), booking))
	})

	t.Run("no mailable recipients", func(t *testing.T) {
		f := newFixture(t, false)

		assert.Error(t, f.svc.NotifyApprovalRequested(context.Background(), booking, []string{"advisor-2"}))
	})
}

func TestNotifier_Publish(t *testing.T) {
	f := newFixture(t, true)
	f.kafka.EXPECT().SendMessages(gomock.Any(), "booking.notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			require.Len(t, messages, 1)
			assert.Equal(t, "b-1", messages[0].Key)

			n, ok := messages[0].Value.(model.Notification)
			require.True(t, ok)
			assert.Equal(t, model.KindApproved, n.Kind)

			return nil
		})

	assert.NoError(t, f.svc.NotifyApproved(context.Background(), booking))
}

func TestNotifier_Handle(t *testing.T) {
	raw, err := json.Marshal(model.Notification{Kind: model.KindApproved, Booking: booking, Recipients: []string{booking.ClientEmail}})
	require.NoError(t, err)

	t.Run("delivers decoded notification", func(t *testing.T) {
		f := newFixture(t, true)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Handle(context.Background(), kafkaGo.Message{Key: []byte("b-1"), Value: raw}))
	})

	t.Run("delivery failure keeps the offset", func(t *testing.T) {
		f := newFixture(t, true)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

		assert.Error(t, f.svc.Handle(context.Background(), kafkaGo.Message{Value: raw}))
	})

	t.Run("disabled smtp drops", func(t *testing.T) {
		f := newFixture(t, true)
		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(mailer.ErrDisabled)

		assert.NoError(t, f.svc.Handle(context.Background(), kafkaGo.Message{Value: raw}))
	})

	t.Run("garbage is skipped", func(t *testing.T) {
		f := newFixture(t, true)

		assert.NoError(t, f.svc.Handle(context.Background(), kafkaGo.Message{Value: []byte("{")}))
	})
}
