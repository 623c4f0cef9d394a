package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"scheduler/config"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

var ErrDisabled = errors.New("smtp delivery disabled")

type Mail struct {
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailer struct {
	enabled bool
	from    string
	dialer  sender
}

func New(cfg *config.Config) Mailer {
	smtp := cfg.SMTP

	if smtp.Enable {
		log.Info().Str("host", smtp.Host).Int("port", smtp.Port).Msg("SMTP mailer initialized")
	}

	return &smtpMailer{
		enabled: smtp.Enable,
		from:    smtp.From,
		dialer:  gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password),
	}
}

// Send dials the SMTP server once per mail and gives up when ctx ends. gomail puts no deadline on the
// exchange after connecting, so the dial runs aside and a stalled server is abandoned, not waited on.
func (m *smtpMailer) Send(ctx context.Context, mail Mail) error {
	if !m.enabled {
		log.Debug().Strs("to", mail.To).Str("subject", mail.Subject).Msg("SMTP disabled, mail dropped")

		return ErrDisabled
	}

	if len(mail.To) == 0 {
		return errors.New("mail has no recipients")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To...)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/plain", mail.Body)

	sent := make(chan error, 1)

	go func() {
		sent <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-sent:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
	case <-ctx.Done():
		log.Warn().Strs("to", mail.To).Str("subject", mail.Subject).Msg("SMTP server too slow, mail abandoned")

		return fmt.Errorf("failed to send mail: %w", ctx.Err())
	}

	log.Info().Strs("to", mail.To).Str("subject", mail.Subject).Msg("Mail sent")

	return nil
}
