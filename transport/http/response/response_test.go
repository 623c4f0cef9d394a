package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"scheduler/shared/constant"
	"scheduler/shared/failure"
	"scheduler/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "failure keeps its message",
			err:      failure.Conflict("the slot is no longer available"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"the slot is no longer available"}`,
		},
		{
			name:     "wrapped failure keeps its code",
			err:      fmt.Errorf("approve: %w", failure.ForbiddenError),
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"You don't have the required permissions"}`,
		},
		{
			name:     "driver error is hidden",
			err:      errors.New(`pq: relation "bookings" does not exist`),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"` + constant.ResponseErrorInternal + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}

			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithRequestLimitExceeded(rec, 60)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get(constant.RequestHeaderRetryAfter))
	assert.JSONEq(t, `{"message":"`+constant.ResponseErrorRequestLimitExceeded+`"}`, rec.Body.String())
}
