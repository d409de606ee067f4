package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the resolved caller identity for one request.
type Identity struct {
	AccountID uuid.UUID
	Email     string
	Tier      domain.Tier
}

// Authenticated reports whether the identity came from a verified token
// rather than the anonymous guest fallback.
func (i Identity) Authenticated() bool {
	return i.Tier != domain.TierGuest
}

// Resolver turns a raw bearer token into an Identity.
type Resolver interface {
	// Resolve verifies tokenString and returns the identity it carries.
	// An empty token returns ErrMissingToken; callers that allow anonymous
	// access should fall back to Guest on any resolution error.
	Resolve(ctx context.Context, tokenString string) (*Identity, error)
}

// hmacResolver verifies identity tokens signed with HMAC-SHA256.
type hmacResolver struct {
	signingKey      []byte
	privilegedEmail string           // lowercased; empty disables the PAID mapping
	timeFunc        func() time.Time // Injectable for testing
	clockSkew       time.Duration    // Allowed time difference for validation to handle clock drift
}

// identityClaims is the claim set the identity provider issues.
type identityClaims struct {
	UserID uuid.UUID `json:"uid,omitempty"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// Ensure hmacResolver implements Resolver interface
var _ Resolver = (*hmacResolver)(nil)

// NewResolver creates a Resolver that verifies HMAC-SHA256 identity tokens.
func NewResolver(cfg config.AuthConfig) (Resolver, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacResolver{
		signingKey:      []byte(cfg.JWTSecret),
		privilegedEmail: strings.ToLower(strings.TrimSpace(cfg.PrivilegedEmail)),
		timeFunc:        time.Now,
		clockSkew:       2 * time.Minute, // Allow 2 minutes of clock skew to handle minor time drifts
	}, nil
}

// Guest returns the anonymous identity used when no token is presented.
// The account ID is fresh per call unless a stable client hint is supplied;
// pass the caller's client identifier to keep guest state pinned to one
// browser across requests.
func Guest(clientHint string) Identity {
	id := uuid.New()
	if hint := strings.TrimSpace(clientHint); hint != "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("guest:"+hint))
	}
	return Identity{AccountID: id, Tier: domain.TierGuest}
}

// Resolve verifies the token and maps its claims to an Identity.
func (r *hmacResolver) Resolve(ctx context.Context, tokenString string) (*Identity, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	now := r.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(r.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&identityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return r.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("identity token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("identity token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("identity token validation failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("identity token validation failed: invalid signature", "error", err)
		default:
			log.Debug("identity token validation failed: other validation error",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		log.Debug("identity token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	accountID := claims.UserID
	if accountID == uuid.Nil {
		// A provider-issued token may carry only a string subject. Derive a
		// stable account ID from it so the same account maps to the same
		// entitlement record across requests.
		if claims.Subject == "" {
			log.Debug("identity token validation failed: no account identifier")
			return nil, ErrInvalidToken
		}
		accountID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("account:"+claims.Subject))
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	tier := domain.TierFree
	if r.privilegedEmail != "" && email == r.privilegedEmail {
		tier = domain.TierPaid
	}

	log.Debug("identity token validated successfully",
		"account_id", accountID,
		"tier", tier)

	return &Identity{
		AccountID: accountID,
		Email:     email,
		Tier:      tier,
	}, nil
}
