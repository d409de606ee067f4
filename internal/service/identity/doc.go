// Package identity resolves the identity provider's bearer token into an
// account identity and a coarse tier hint. The engine never manages provider
// sessions itself: it only verifies the token signature and claims, maps the
// single privileged email to the PAID tier, and treats every other
// authenticated account as FREE. Requests without a token resolve to an
// anonymous GUEST identity rather than an error.
package identity
