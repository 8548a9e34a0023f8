package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
)

type classroomRepository interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	Update(ctx context.Context, classroom *models.Classroom) error
	Deactivate(ctx context.Context, id string) error
}

// CreateClassroomRequest describes payload for creating a classroom.
type CreateClassroomRequest struct {
	Code        string  `json:"code" validate:"required,min=1,max=20"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Building    *string `json:"building" validate:"omitempty,max=100"`
	Floor       *int    `json:"floor" validate:"omitempty,min=0,max=50"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=1,max=1000"`
	Description *string `json:"description"`
}

// UpdateClassroomRequest carries a partial update; only supplied fields change.
type UpdateClassroomRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Building    *string `json:"building" validate:"omitempty,max=100"`
	Floor       *int    `json:"floor" validate:"omitempty,min=0,max=50"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=1,max=1000"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// ClassroomService coordinates classroom CRUD and code uniqueness.
type ClassroomService struct {
	repo      classroomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService instantiates ClassroomService.
func NewClassroomService(repo classroomRepository, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, validator: validate, logger: logger}
}

// List returns classrooms with pagination metadata.
func (s *ClassroomService) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, *models.Pagination, error) {
	classrooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	pagination := &models.Pagination{Offset: filter.Offset, Limit: filter.Limit, TotalCount: total}
	return classrooms, pagination, nil
}

// Get returns a classroom by id.
func (s *ClassroomService) Get(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return classroom, nil
}

// Create inserts a new classroom after the code uniqueness check.
func (s *ClassroomService) Create(ctx context.Context, req CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	taken, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check classroom code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a classroom with this code already exists")
	}

	classroom := models.Classroom{
		Code:        req.Code,
		Name:        req.Name,
		Building:    req.Building,
		Floor:       req.Floor,
		Capacity:    req.Capacity,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, &classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	return &classroom, nil
}

// Update applies the supplied fields to an existing classroom.
func (s *ClassroomService) Update(ctx context.Context, id string, req UpdateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}

	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	if req.Code != nil && *req.Code != classroom.Code {
		taken, err := s.repo.ExistsByCode(ctx, *req.Code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check classroom code")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a classroom with this code already exists")
		}
		classroom.Code = *req.Code
	}
	if req.Name != nil {
		classroom.Name = *req.Name
	}
	if req.Building != nil {
		classroom.Building = req.Building
	}
	if req.Floor != nil {
		classroom.Floor = req.Floor
	}
	if req.Capacity != nil {
		classroom.Capacity = req.Capacity
	}
	if req.Description != nil {
		classroom.Description = req.Description
	}
	if req.Active != nil {
		classroom.Active = *req.Active
	}

	if err := s.repo.Update(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classroom")
	}
	return classroom, nil
}

// Delete soft-deletes a classroom.
func (s *ClassroomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete classroom")
	}
	return nil
}
