package permissions_test

import (
	"net/http"
	"scheduler/permissions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	booking := data.FindPermissions("/v1/public/links/{id}/bookings", http.MethodPost)
	assert.True(t, booking.Skip)
	assert.True(t, booking.Allows(""))

	createLink := data.FindPermissions("/v1/links/", http.MethodPost)
	assert.True(t, createLink.Allows("advisor"))
	assert.False(t, createLink.Allows("client"))

	approve := data.FindPermissions("/v1/bookings/{id}/approve", http.MethodPost)
	assert.False(t, approve.Skip)
	assert.True(t, approve.Allows("client"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "valid",
			data: `{"endpoints":[{"path":"/v1/links/","method":"post","permissions":["advisor"]}]}`,
		},
		{
			name:    "not json",
			data:    `{`,
			wantErr: "failed to decode permissions",
		},
		{
			name:    "outside v1",
			data:    `{"endpoints":[{"path":"/links/","method":"POST"}]}`,
			wantErr: "outside /v1",
		},
		{
			name:    "unknown method",
			data:    `{"endpoints":[{"path":"/v1/links/","method":"FETCH"}]}`,
			wantErr: "unknown method",
		},
		{
			name:    "duplicate",
			data:    `{"endpoints":[{"path":"/v1/links/","method":"POST"},{"path":"/v1/links/","method":"post"}]}`,
			wantErr: "listed twice",
		},
		{
			name:    "public route with roles",
			data:    `{"endpoints":[{"path":"/v1/public/links/{id}","method":"GET","skip":true,"permissions":["admin"]}]}`,
			wantErr: "cannot require roles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := permissions.Parse([]byte(tt.data))

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.True(t, data.FindPermissions("/v1/links/", http.MethodPost).Allows("advisor"))
		})
	}
}
