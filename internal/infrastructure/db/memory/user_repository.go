// Package memory provides a mutex-guarded in-memory credential store, used
// as the fixture for service and router tests. A single lock over the map
// gives the same atomicity guarantees the Mongo store derives from its
// unique index and atomic updates.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Create inserts the user, failing with ErrUserExists if the username is
// taken. Check and insert happen under one lock acquisition.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}

	stored := clone(user)
	if stored.ID == "" {
		stored.ID = stored.Username
	}
	r.users[stored.Username] = stored
	return clone(stored), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(user), nil
}

// FindByAPIKey matches the stored key exactly; users without a key and
// inactive users never match.
func (r *UserRepository) FindByAPIKey(_ context.Context, key string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	for _, user := range r.users {
		if user.Active && user.APIKey == key {
			return clone(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// SetAPIKey overwrites the stored key in a single critical section, so a
// concurrent reader sees either the old key or the new one, never a mix.
func (r *UserRepository) SetAPIKey(_ context.Context, username, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.APIKey = key
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) SetActive(_ context.Context, username string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Active = active
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	return &copy
}
