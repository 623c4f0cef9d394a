package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"scheduler/config"
	"scheduler/infras/kafka"
	"scheduler/infras/mailer"
	"scheduler/infras/otel"
	"scheduler/internal/domains/notification/model"
	"scheduler/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

var errNoRecipients = errors.New("notification has no mailable recipients")

// Notifier dispatches booking notifications. With Kafka enabled they are published for the
// notifier worker, otherwise they are mailed inline.
type Notifier interface {
	NotifyApprovalRequested(ctx context.Context, booking model.Booking, approvers []string) error
	NotifyApproved(ctx context.Context, booking model.Booking) error
	NotifyRejected(ctx context.Context, booking model.Booking, reason string) error
	// Deliver mails a single notification.
	Deliver(ctx context.Context, notification model.Notification) error
	// Handle is the consumer handler for the notification topic.
	Handle(ctx context.Context, message kafkaGo.Message) error
}

type serviceImpl struct {
	kafka  kafka.Client
	mailer mailer.Mailer
	cfg    *config.Config
	otel   otel.Otel
}

func New(kafka kafka.Client, mailer mailer.Mailer, cfg *config.Config, otel otel.Otel) Notifier {
	return &serviceImpl{
		kafka:  kafka,
		mailer: mailer,
		cfg:    cfg,
		otel:   otel,
	}
}

// mailable keeps approver identities that are email addresses. Approvers listed by user id
// cannot be mailed from here.
func mailable(identities []string) []string {
	out := make([]string, 0, len(identities))

	for _, identity := range identities {
		if strings.Contains(identity, "@") {
			out = append(out, strings.TrimSpace(identity))
		}
	}

	return out
}

func (s *serviceImpl) NotifyApprovalRequested(ctx context.Context, booking model.Booking, approvers []string) error {
	return s.dispatch(ctx, model.Notification{
		Kind:       model.KindApprovalRequested,
		Booking:    booking,
		Recipients: mailable(approvers),
	})
}

func (s *serviceImpl) NotifyApproved(ctx context.Context, booking model.Booking) error {
	return s.dispatch(ctx, model.Notification{
		Kind:       model.KindApproved,
		Booking:    booking,
		Recipients: mailable([]string{booking.ClientEmail}),
	})
}

func (s *serviceImpl) NotifyRejected(ctx context.Context, booking model.Booking, reason string) error {
	return s.dispatch(ctx, model.Notification{
		Kind:       model.KindRejected,
		Booking:    booking,
		Recipients: mailable([]string{booking.ClientEmail}),
		Reason:     reason,
	})
}

func (s *serviceImpl) dispatch(ctx context.Context, n model.Notification) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelNotifierScopeName, constant.OtelNotifierScopeName+".dispatch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("notification.kind", string(n.Kind))
	scope.SetAttribute("notification.booking_id", n.Booking.ID)

	if len(n.Recipients) == 0 {
		return errNoRecipients
	}

	if !s.cfg.Kafka.Enable {
		return s.Deliver(ctx, n)
	}

	if err = s.kafka.SendMessages(ctx, s.cfg.Kafka.Topic, kafka.Message{Key: n.Booking.ID, Value: n}); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", n.Kind, err)
	}

	log.Debug().Str("booking_id", n.Booking.ID).Str("kind", string(n.Kind)).Msg("notification published")

	return nil
}

func (s *serviceImpl) Deliver(ctx context.Context, n model.Notification) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelNotifierScopeName, constant.OtelNotifierScopeName+".Deliver")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.mailer.Send(ctx, mailer.Mail{
		To:      n.Recipients,
		Subject: subject(n),
		Body:    body(n),
	})
	if errors.Is(err, mailer.ErrDisabled) {
		log.Debug().Str("booking_id", n.Booking.ID).Str("kind", string(n.Kind)).Msg("SMTP disabled, notification dropped")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to mail %s notification: %w", n.Kind, err)
	}

	return nil
}

func (s *serviceImpl) Handle(ctx context.Context, message kafkaGo.Message) error {
	n, err := kafka.Decode[model.Notification](message)
	if err != nil {
		// a malformed message would block the partition forever
		log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping undecodable notification")

		return nil
	}

	return s.Deliver(ctx, n)
}
