package model_test

import (
	"scheduler/internal/domains/link/model"
	"scheduler/internal/scheduling"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLink_IsAvailable(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		link model.Link
		want bool
	}{
		{name: "active unlimited", link: model.Link{Active: true}, want: true},
		{name: "inactive", link: model.Link{Active: false}, want: false},
		{name: "expired", link: model.Link{Active: true, ExpiresAt: &past}, want: false},
		{name: "expires exactly now", link: model.Link{Active: true, ExpiresAt: &now}, want: false},
		{name: "expires later", link: model.Link{Active: true, ExpiresAt: &future}, want: true},
		{name: "under limit", link: model.Link{Active: true, UsageLimit: 3, UsageCount: 2}, want: true},
		{name: "limit reached", link: model.Link{Active: true, UsageLimit: 3, UsageCount: 3}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.IsAvailable(now))
		})
	}
}

func TestLink_Buffers(t *testing.T) {
	link := model.Link{DurationMinutes: 45, BufferBeforeMinutes: 10, BufferAfterMinutes: 15}

	assert.Equal(t, 45*time.Minute, link.Duration())
	assert.Equal(t, scheduling.Buffer{Before: 10 * time.Minute, After: 15 * time.Minute}, link.Buffer())
	assert.Equal(t, scheduling.Buffer{}, link.BookingBuffer())

	link.EnforceBuffer = true
	assert.Equal(t, link.Buffer(), link.BookingBuffer())
}
