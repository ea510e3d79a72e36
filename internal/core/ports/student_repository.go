package ports

import (
	"context"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

// StudentRepository defines persistence operations for roster records.
type StudentRepository interface {
	Create(ctx context.Context, s *domain.Student) (*domain.Student, error)
	FindByID(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
	Update(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
}
