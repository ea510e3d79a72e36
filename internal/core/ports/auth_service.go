package ports

import (
	"context"
	"time"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

// AuthService implements registration, both login flows, and credential
// validation for both schemes.
type AuthService interface {
	Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	// Login verifies the password and rotates the API key: the returned key
	// replaces, and permanently invalidates, any previously issued one.
	Login(ctx context.Context, username, password string) (domain.Identity, string, error)
	// LoginForSession verifies the password and issues a signed, time-bound
	// session token. No API-key rotation occurs on this path.
	LoginForSession(ctx context.Context, username, password string) (string, error)

	Authenticator
}

// Authenticator validates a presented credential and returns the identity it
// proves. The two schemes are independent strategies; the transport layer
// selects one based on which credential the request carries.
type Authenticator interface {
	// ValidateSession checks signature and expiry only; no store lookup.
	ValidateSession(token string) (domain.Identity, error)
	// ValidateAPIKey resolves the key through the credential store and fails
	// for unknown keys and inactive users alike.
	ValidateAPIKey(ctx context.Context, key string) (domain.Identity, error)
}

// PasswordHasher is a one-way adaptive hash over plaintext passwords. The
// salt is embedded in the digest, so Verify needs only digest and candidate.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails on malformed digests; it reports false.
	Verify(plaintext, digest string) bool
}

// LoginThrottle limits repeated failed logins per username. Implementations
// are advisory: errors talking to the backing store must not block logins.
type LoginThrottle interface {
	TooMany(ctx context.Context, username string) bool
	RecordFailure(ctx context.Context, username string)
}

// SessionTTL is the fixed lifetime of issued session tokens.
const SessionTTL = 60 * time.Minute
