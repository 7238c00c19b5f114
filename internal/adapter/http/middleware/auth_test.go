package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bank-suite/cards-service/internal/adapter/http/middleware"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/usecase/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	claims *services.Claims
	err    error
}

func (p *stubParser) ParseToken(string) (*services.Claims, error) {
	return p.claims, p.err
}

func okHandler(t *testing.T, sawPrincipal *middleware.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := middleware.FromContext(r.Context()); ok {
			*sawPrincipal = principal
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_InjectsPrincipal(t *testing.T) {
	parser := &stubParser{claims: &services.Claims{
		Roles:            []string{domain.RoleUser},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}}

	var principal middleware.Principal
	handler := middleware.BearerAuth(parser)(okHandler(t, &principal))

	req := httptest.NewRequest(http.MethodGet, "/card/v1/myCards", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, []string{domain.RoleUser}, principal.Roles)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	handler := middleware.BearerAuth(&stubParser{})(okHandler(t, &middleware.Principal{}))

	req := httptest.NewRequest(http.MethodGet, "/card/v1/myCards", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	handler := middleware.BearerAuth(&stubParser{})(okHandler(t, &middleware.Principal{}))

	req := httptest.NewRequest(http.MethodGet, "/card/v1/myCards", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_RejectedToken(t *testing.T) {
	parser := &stubParser{err: errors.New("token expired")}
	handler := middleware.BearerAuth(parser)(okHandler(t, &middleware.Principal{}))

	req := httptest.NewRequest(http.MethodGet, "/card/v1/myCards", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	userParser := &stubParser{claims: &services.Claims{
		Roles:            []string{domain.RoleUser},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}}
	adminParser := &stubParser{claims: &services.Claims{
		Roles:            []string{domain.RoleUser, domain.RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin-1"},
	}}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		parser middleware.TokenParser
		want   int
	}{
		{name: "admin role passes", parser: adminParser, want: http.StatusOK},
		{name: "plain user forbidden", parser: userParser, want: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := middleware.BearerAuth(tc.parser)(middleware.RequireRole(domain.RoleAdmin)(next))

			req := httptest.NewRequest(http.MethodGet, "/card/v1/all", nil)
			req.Header.Set("Authorization", "Bearer token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	handler := middleware.RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/card/v1/all", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
