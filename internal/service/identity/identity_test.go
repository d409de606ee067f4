package identity

import (
	"context"
	"testing"
	"time"

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret-at-least-32-chars!!"

func signToken(t *testing.T, key string, claims identityClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func newTestResolver(t *testing.T, privilegedEmail string) Resolver {
	t.Helper()
	r, err := NewResolver(config.AuthConfig{
		JWTSecret:       testSecret,
		PrivilegedEmail: privilegedEmail,
	})
	require.NoError(t, err)
	return r
}

func TestNewResolverRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(config.AuthConfig{JWTSecret: "too-short"})
	assert.Error(t, err)
}

func TestResolveValidToken(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "admin@example.com")
	accountID := uuid.New()
	now := time.Now()

	token := signToken(t, testSecret, identityClaims{
		UserID: accountID,
		Email:  "Student@Example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	id, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, accountID, id.AccountID)
	assert.Equal(t, "student@example.com", id.Email)
	assert.Equal(t, domain.TierFree, id.Tier)
	assert.True(t, id.Authenticated())
}

func TestResolvePrivilegedEmailGetsPaidTier(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "admin@example.com")
	now := time.Now()

	token := signToken(t, testSecret, identityClaims{
		UserID: uuid.New(),
		Email:  "ADMIN@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	id, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.TierPaid, id.Tier)
}

func TestResolveDerivesAccountIDFromSubject(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "")
	now := time.Now()

	mint := func() string {
		return signToken(t, testSecret, identityClaims{
			Email: "student@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "provider|12345",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
	}

	first, err := resolver.Resolve(context.Background(), mint())
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), mint())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.AccountID)
	assert.Equal(t, first.AccountID, second.AccountID,
		"same subject must map to the same account")
}

func TestResolveRejectsTokenWithoutIdentifier(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "")
	token := signToken(t, testSecret, identityClaims{
		Email: "student@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := resolver.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveMissingToken(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "")

	_, err := resolver.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = resolver.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestResolveExpiredToken(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "")
	token := signToken(t, testSecret, identityClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			// Beyond the 2 minute clock skew allowance.
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := resolver.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestResolveWrongSignature(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "")
	token := signToken(t, "another-signing-secret-32-chars-long!!!", identityClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := resolver.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveMalformedToken(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, "")

	_, err := resolver.Resolve(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGuestIdentity(t *testing.T) {
	t.Parallel()

	anon := Guest("")
	assert.Equal(t, domain.TierGuest, anon.Tier)
	assert.False(t, anon.Authenticated())
	assert.NotEqual(t, uuid.Nil, anon.AccountID)

	pinned := Guest("browser-abc")
	again := Guest("browser-abc")
	assert.Equal(t, pinned.AccountID, again.AccountID,
		"same client hint must map to the same guest account")
	assert.NotEqual(t, pinned.AccountID, Guest("browser-xyz").AccountID)
}
