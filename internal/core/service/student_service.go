package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

// StudentService implements roster CRUD on top of a StudentRepository.
type StudentService struct {
	repo   ports.StudentRepository
	logger zerolog.Logger
}

func NewStudentService(repo ports.StudentRepository, logger zerolog.Logger) *StudentService {
	return &StudentService{repo: repo, logger: logger}
}

func (s *StudentService) Create(ctx context.Context, input ports.StudentInput) (*domain.Student, error) {
	now := time.Now().UTC()
	student := &domain.Student{
		Name:      input.Name,
		Age:       input.Age,
		Sex:       input.Sex,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		Major:     input.Major,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("student_id", created.ID).Str("email", created.Email).Msg("student created")
	return created, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StudentService) List(ctx context.Context) ([]*domain.Student, error) {
	return s.repo.List(ctx)
}

func (s *StudentService) Update(ctx context.Context, id string, input ports.StudentInput) (*domain.Student, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Age = input.Age
	existing.Sex = input.Sex
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.Address = input.Address
	existing.Major = input.Major
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("student_id", id).Msg("student updated")
	return updated, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("student_id", id).Msg("student deleted")
	return nil
}
