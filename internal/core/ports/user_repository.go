package ports

import (
	"context"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

// UserRepository is the credential store: the authoritative mapping from
// username to identity and secret material.
//
// Implementations must guarantee two atomicity properties:
//   - Create performs an atomic check-then-insert: of two concurrent creates
//     for the same username exactly one succeeds, the other returns
//     domain.ErrUserExists, and the store is never left with both.
//   - SetAPIKey overwrites the stored key atomically; concurrent rotations
//     resolve last-writer-wins without a torn or lost write.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByAPIKey matches the stored key exactly and only for active users.
	FindByAPIKey(ctx context.Context, key string) (*domain.User, error)
	SetAPIKey(ctx context.Context, username, key string) error
	SetActive(ctx context.Context, username string, active bool) error
}
