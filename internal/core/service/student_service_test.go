package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

type stubStudentRepo struct {
	nextID   int
	students map[string]*domain.Student
}

func newStubStudentRepo() *stubStudentRepo {
	return &stubStudentRepo{students: make(map[string]*domain.Student)}
}

func (r *stubStudentRepo) Create(_ context.Context, s *domain.Student) (*domain.Student, error) {
	for _, existing := range r.students {
		if existing.Email == s.Email {
			return nil, domain.ErrDuplicateStudent
		}
	}
	r.nextID++
	stored := *s
	stored.ID = strconv.Itoa(r.nextID)
	r.students[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubStudentRepo) FindByID(_ context.Context, id string) (*domain.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	out := *s
	return &out, nil
}

func (r *stubStudentRepo) List(_ context.Context) ([]*domain.Student, error) {
	out := make([]*domain.Student, 0, len(r.students))
	for _, s := range r.students {
		copy := *s
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubStudentRepo) Update(_ context.Context, s *domain.Student) (*domain.Student, error) {
	if _, ok := r.students[s.ID]; !ok {
		return nil, domain.ErrStudentNotFound
	}
	stored := *s
	r.students[s.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.students[id]; !ok {
		return domain.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func sampleInput() ports.StudentInput {
	return ports.StudentInput{
		Name:    "Maria Lopez",
		Age:     21,
		Sex:     "F",
		Email:   "maria@example.com",
		Phone:   "555-0101",
		Address: "12 Elm St",
		Major:   "Systems Engineering",
	}
}

func TestStudentService_CreateAndGet(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Email != "maria@example.com" {
		t.Fatalf("unexpected student: %+v", got)
	}
}

func TestStudentService_CreateDuplicateEmail(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(ctx, sampleInput()); !errors.Is(err, domain.ErrDuplicateStudent) {
		t.Fatalf("expected ErrDuplicateStudent, got %v", err)
	}
}

func TestStudentService_Update(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	input := sampleInput()
	input.Major = "Mathematics"
	updated, err := svc.Update(ctx, created.ID, input)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Major != "Mathematics" {
		t.Fatalf("expected updated major, got %q", updated.Major)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("update must not change created_at")
	}

	if _, err := svc.Update(ctx, "999", input); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestStudentService_Delete(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}
