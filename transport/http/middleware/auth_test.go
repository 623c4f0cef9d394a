package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"scheduler/config"
	"scheduler/infras/jwt"
	otelMocks "scheduler/infras/otel/mocks"
	"scheduler/permissions"
	"scheduler/shared"
	"scheduler/shared/constant"
	"scheduler/transport/http/middleware"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "test-secret"
	apiKey = "internal-key"
)

func token(t *testing.T, userID, role string) string {
	t.Helper()

	claims := jwt.Claims{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func newRouter() http.Handler {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.App.APIKey = apiKey

	perms := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/public/links/{id}/bookings", Method: http.MethodPost, Skip: true},
			{Path: "/v1/links/", Method: http.MethodPost, Permissions: []string{"advisor"}},
		},
	}

	auth := middleware.NewAuthRoleMiddleware(jwt.New(cfg), otelMocks.NewOtel(), perms, cfg)

	whoami := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shared.UserID(r.Context())))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(group chi.Router) {
		group.Use(auth.APIKey, auth.Auth, auth.RBAC)
		group.Post("/public/links/{id}/bookings", whoami)
		group.Get("/bookings/{id}", whoami)
		group.Post("/links/", whoami)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "public route without token",
			method:     http.MethodPost,
			path:       "/v1/public/links/l-1/bookings",
			wantStatus: http.StatusOK,
		},
		{
			name:       "public route keeps a valid principal",
			method:     http.MethodPost,
			path:       "/v1/public/links/l-1/bookings",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(t, "client-1", "")},
			wantStatus: http.StatusOK,
			wantBody:   "client-1",
		},
		{
			name:       "public route ignores a broken token",
			method:     http.MethodPost,
			path:       "/v1/public/links/l-1/bookings",
			headers:    map[string]string{constant.RequestHeaderAuthorization: "Bearer nope"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "private route needs a token",
			method:     http.MethodGet,
			path:       "/v1/bookings/b-1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "private route with token",
			method:     http.MethodGet,
			path:       "/v1/bookings/b-1",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(t, "advisor-1", "advisor")},
			wantStatus: http.StatusOK,
			wantBody:   "advisor-1",
		},
		{
			name:       "role not allowed",
			method:     http.MethodPost,
			path:       "/v1/links/",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(t, "client-1", "client")},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "role allowed",
			method:     http.MethodPost,
			path:       "/v1/links/",
			headers:    map[string]string{constant.RequestHeaderAuthorization: token(t, "advisor-1", "advisor")},
			wantStatus: http.StatusOK,
			wantBody:   "advisor-1",
		},
		{
			name:       "internal api key skips token checks",
			method:     http.MethodPost,
			path:       "/v1/links/",
			headers:    map[string]string{constant.RequestHeaderAPIKey: apiKey},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong api key",
			method:     http.MethodGet,
			path:       "/v1/bookings/b-1",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantStatus: http.StatusForbidden,
		},
	}

	router := newRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
