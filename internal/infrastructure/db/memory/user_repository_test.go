package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

func newUser(username string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Username:     username,
		PasswordHash: "$2a$04$fakehash",
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_ConcurrentCreate_ExactlyOneWins(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newUser("alice"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrUserExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly one successful create, got %d", successes)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}

func TestUserRepository_ConcurrentRotation_NoTornWrite(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, newUser("bob")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const rotations = 32
	keys := make(map[string]struct{}, rotations)
	var wg sync.WaitGroup
	for i := 0; i < rotations; i++ {
		key := fmt.Sprintf("pk_key_%d", i)
		keys[key] = struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.SetAPIKey(ctx, "bob", key); err != nil {
				t.Errorf("SetAPIKey failed: %v", err)
			}
		}()
	}
	wg.Wait()

	user, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	// Last-writer-wins: the stored key must be one of the written keys,
	// never empty or a mix.
	if _, ok := keys[user.APIKey]; !ok {
		t.Fatalf("stored key %q is not one of the written keys", user.APIKey)
	}
}

func TestUserRepository_FindByAPIKey(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, newUser("carol")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.SetAPIKey(ctx, "carol", "pk_carol"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}

	user, err := repo.FindByAPIKey(ctx, "pk_carol")
	if err != nil {
		t.Fatalf("FindByAPIKey failed: %v", err)
	}
	if user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// A user who never logged in holds no key; the empty string must not
	// match them.
	if _, err := repo.Create(ctx, newUser("dave")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.FindByAPIKey(ctx, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for empty key, got %v", err)
	}

	// Inactive users never match, even with the right key.
	if err := repo.SetActive(ctx, "carol", false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if _, err := repo.FindByAPIKey(ctx, "pk_carol"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for inactive user, got %v", err)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, newUser("erin")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, _ := repo.FindByUsername(ctx, "erin")
	first.PasswordHash = "mutated"

	second, _ := repo.FindByUsername(ctx, "erin")
	if second.PasswordHash == "mutated" {
		t.Fatalf("repository leaked internal state to caller")
	}
}
