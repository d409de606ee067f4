package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chridipi/synapse-engine/internal/api/shared"
	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/service/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-32-chars-long!!!"

func signTestToken(t *testing.T, email string, accountID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":   accountID.String(),
		"email": email,
		"sub":   accountID.String(),
		"exp":   jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func captureIdentity(t *testing.T, mw *IdentityMiddleware, req *http.Request) identity.Identity {
	t.Helper()
	var captured identity.Identity
	handler := mw.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := shared.GetIdentity(r.Context())
		require.True(t, ok, "identity must always be present downstream")
		captured = id
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "middleware must never reject")
	return captured
}

func newTestMiddleware(t *testing.T) *IdentityMiddleware {
	t.Helper()
	resolver, err := identity.NewResolver(config.AuthConfig{
		JWTSecret:       testSecret,
		PrivilegedEmail: "admin@example.com",
	})
	require.NoError(t, err)
	return NewIdentityMiddleware(resolver)
}

func TestResolveValidToken(t *testing.T) {
	t.Parallel()

	mw := newTestMiddleware(t)
	accountID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "student@example.com", accountID))

	id := captureIdentity(t, mw, req)
	assert.Equal(t, accountID, id.AccountID)
	assert.Equal(t, domain.TierFree, id.Tier)
}

func TestResolvePrivilegedEmail(t *testing.T) {
	t.Parallel()

	mw := newTestMiddleware(t)
	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "admin@example.com", uuid.New()))

	id := captureIdentity(t, mw, req)
	assert.Equal(t, domain.TierPaid, id.Tier)
}

func TestResolveMissingTokenYieldsGuest(t *testing.T) {
	t.Parallel()

	mw := newTestMiddleware(t)
	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)

	id := captureIdentity(t, mw, req)
	assert.Equal(t, domain.TierGuest, id.Tier)
	assert.NotEqual(t, uuid.Nil, id.AccountID)
}

func TestResolveClientHintPinsGuestAccount(t *testing.T) {
	t.Parallel()

	mw := newTestMiddleware(t)

	mint := func() identity.Identity {
		req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
		req.Header.Set(ClientIDHeader, "browser-abc")
		return captureIdentity(t, mw, req)
	}

	assert.Equal(t, mint().AccountID, mint().AccountID,
		"same client hint must resolve to the same guest account")
}

func TestResolveInvalidTokenDegradesToGuest(t *testing.T) {
	t.Parallel()

	mw := newTestMiddleware(t)

	for name, header := range map[string]string{
		"garbage token":  "Bearer not-a-jwt",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"missing scheme": "just-a-token",
	} {
		header := header
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
			req.Header.Set("Authorization", header)
			id := captureIdentity(t, mw, req)
			assert.Equal(t, domain.TierGuest, id.Tier)
		})
	}
}

func TestTraceMiddlewareAddsTraceID(t *testing.T) {
	t.Parallel()

	var traceID string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(context.Background()))
	assert.NotEmpty(t, traceID)
}
