// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]*AccessTokenClaims

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (*AccessTokenClaims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func echoClaims() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User", GetUserID(r.Context()))
		w.Header().Set("X-Role", GetUserRole(r.Context()))
		w.Header().Set("X-Identity", GetIdentity(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	verifier := stubVerifier{
		"good": {UserID: "u1", Role: RoleClient, Identity: "alice"},
	}
	h := Authenticator(verifier)(echoClaims())

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "No token provided"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"case insensitive scheme", "bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
				return
			}
			assert.Equal(t, "u1", rec.Header().Get("X-User"))
			assert.Equal(t, RoleClient, rec.Header().Get("X-Role"))
			assert.Equal(t, "alice", rec.Header().Get("X-Identity"))
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		guard  func(http.Handler) http.Handler
		claims *AccessTokenClaims
		status int
	}{
		{"admin passes admin guard", RequireAdmin, &AccessTokenClaims{UserID: "a", Role: RoleAdmin}, http.StatusOK},
		{"client blocked by admin guard", RequireAdmin, &AccessTokenClaims{UserID: "c", Role: RoleClient}, http.StatusForbidden},
		{"client passes client guard", RequireClient, &AccessTokenClaims{UserID: "c", Role: RoleClient}, http.StatusOK},
		{"admin blocked by client guard", RequireClient, &AccessTokenClaims{UserID: "a", Role: RoleAdmin}, http.StatusForbidden},
		{"anonymous", RequireAdmin, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			tt.guard(echoClaims()).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetClaims(t *testing.T) {
	claims := &AccessTokenClaims{UserID: "a", Role: RoleAdmin, Identity: "owner@studio.test"}
	ctx := WithClaims(context.Background(), claims)

	assert.Same(t, claims, GetClaims(ctx))
	assert.True(t, IsAdmin(ctx))
	assert.Nil(t, GetClaims(context.Background()))
	assert.False(t, IsAdmin(context.Background()))
}

func TestKeyByPrefixedIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:51234"

	assert.Equal(t, "ratelimit:ip:203.0.113.7", KeyByIP(req))
	assert.Equal(t, "auth:ratelimit:ip:203.0.113.7", KeyByPrefixedIP("auth")(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.1, 198.51.100.2")
	assert.Equal(t, "auth:ratelimit:ip:198.51.100.2", KeyByPrefixedIP("auth")(req))
}

func TestRateLimiter_FallsBackWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewRateLimiter(rdb, RateLimitConfig{
		Limit:   PerMinute(2, 2),
		KeyFunc: KeyByPrefixedIP("auth"),
	})
	h := limiter.Handler(echoClaims())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(echoClaims()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecurityHeaders(false)(echoClaims()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
