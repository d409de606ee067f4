package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chridipi/synapse-engine/internal/api/shared"
	"github.com/chridipi/synapse-engine/internal/redact"
	"github.com/chridipi/synapse-engine/internal/service/identity"
)

// ClientIDHeader carries an optional stable client identifier so anonymous
// guests keep the same account across requests from one browser.
const ClientIDHeader = "X-Client-Id"

// IdentityMiddleware resolves the caller's bearer token into an identity and
// stores it in the request context. It never rejects a request: a missing or
// unverifiable token yields an anonymous guest identity, and the session gate
// downstream decides what guests may do.
type IdentityMiddleware struct {
	resolver identity.Resolver
}

// NewIdentityMiddleware creates an IdentityMiddleware with the given resolver.
func NewIdentityMiddleware(resolver identity.Resolver) *IdentityMiddleware {
	return &IdentityMiddleware{resolver: resolver}
}

// Resolve attaches the caller identity to the request context.
func (m *IdentityMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.resolveIdentity(r)
		ctx := shared.WithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *IdentityMiddleware) resolveIdentity(r *http.Request) identity.Identity {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return identity.Guest(r.Header.Get(ClientIDHeader))
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		slog.Debug("malformed authorization header, treating caller as guest")
		return identity.Guest(r.Header.Get(ClientIDHeader))
	}

	resolved, err := m.resolver.Resolve(r.Context(), parts[1])
	if err != nil {
		// Expired and invalid tokens degrade to guest rather than 401: the
		// gate rejects guest submissions with a sign-in prompt, which is the
		// behavior the front-end expects.
		slog.Debug("identity resolution failed, treating caller as guest",
			"error", redact.Error(err))
		return identity.Guest(r.Header.Get(ClientIDHeader))
	}
	return *resolved
}
