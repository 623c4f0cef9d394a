package jwt_test

import (
	"scheduler/config"
	"scheduler/infras/jwt"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.Claims, key string) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)

	return token
}

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.JWT.Issuer = "identity"

	return jwt.New(cfg)
}

func TestValidateToken(t *testing.T) {
	now := time.Now()
	valid := gojwt.RegisteredClaims{
		Issuer:    "identity",
		Subject:   "advisor-1",
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
		wantID  string
	}{
		{
			name: "subject used as user id",
			token: func(t *testing.T) string {
				return sign(t, jwt.Claims{Email: "a@example.com", RegisteredClaims: valid}, secret)
			},
			wantID: "advisor-1",
		},
		{
			name: "explicit user id wins",
			token: func(t *testing.T) string {
				return sign(t, jwt.Claims{UserID: "u-9", RegisteredClaims: valid}, secret)
			},
			wantID: "u-9",
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				expired := valid
				expired.ExpiresAt = gojwt.NewNumericDate(now.Add(-time.Minute))

				return sign(t, jwt.Claims{RegisteredClaims: expired}, secret)
			},
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.Claims{RegisteredClaims: valid}, "other")
			},
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				foreign := valid
				foreign.Issuer = "elsewhere"

				return sign(t, jwt.Claims{RegisteredClaims: foreign}, secret)
			},
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "no subject",
			token: func(t *testing.T) string {
				anonymous := valid
				anonymous.Subject = ""

				return sign(t, jwt.Claims{RegisteredClaims: anonymous}, secret)
			},
			wantErr: jwt.ErrInvalidClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := newService().ValidateToken(tt.token(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, claims.UserID)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, jwt.ErrMissingHeader)

	_, err = jwt.ExtractTokenFromHeader("Basic xyz")
	assert.ErrorIs(t, err, jwt.ErrMalformed)
}
