package ports

import (
	"context"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

// StudentInput carries the writable fields of a roster record.
type StudentInput struct {
	Name    string
	Age     int
	Sex     string
	Email   string
	Phone   string
	Address string
	Major   string
}

// StudentService orchestrates roster CRUD. Authorization has already been
// enforced by the time these methods run.
type StudentService interface {
	Create(ctx context.Context, input StudentInput) (*domain.Student, error)
	Get(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
	Update(ctx context.Context, id string, input StudentInput) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
}
