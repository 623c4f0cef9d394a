package kafka_test

import (
	"scheduler/infras/kafka"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Kind      string `json:"kind"`
	BookingID string `json:"booking_id"`
}

func TestMessageRoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "b-1", Value: payload{Kind: "approved", BookingID: "b-1"}}

	raw, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("b-1"), raw.Key)

	decoded, err := kafka.Decode[payload](raw)
	require.NoError(t, err)
	assert.Equal(t, "approved", decoded.Kind)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := kafka.Decode[payload](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}
