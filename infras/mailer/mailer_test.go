package mailer_test

import (
	"context"
	"scheduler/config"
	"scheduler/infras/mailer"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendWhenDisabled(t *testing.T) {
	m := mailer.New(&config.Config{})

	err := m.Send(context.Background(), mailer.Mail{To: []string{"advisor@example.com"}, Subject: "hi"})
	assert.ErrorIs(t, err, mailer.ErrDisabled)
}
