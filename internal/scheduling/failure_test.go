package scheduling_test

import (
	"errors"
	"fmt"
	"net/http"
	"scheduler/internal/scheduling"
	"scheduler/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFailure(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: scheduling.ErrInvalidRange, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: %q", scheduling.ErrUnknownTimezone, "Mars/Base"), want: http.StatusBadRequest},
		{err: scheduling.ErrReasonRequired, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: overlaps booking b-1", scheduling.ErrConflict), want: http.StatusConflict},
		{err: scheduling.ErrInvalidTransition, want: http.StatusUnprocessableEntity},
		{err: scheduling.ErrNotApprover, want: http.StatusForbidden},
		{err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(scheduling.ToFailure(tt.err)))
		})
	}

	assert.NoError(t, scheduling.ToFailure(nil))
}
