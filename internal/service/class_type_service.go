package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
)

type classTypeRepository interface {
	List(ctx context.Context, filter models.ClassTypeFilter) ([]models.ClassType, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassType, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsByAcronym(ctx context.Context, acronym, excludeID string) (bool, error)
	Create(ctx context.Context, classType *models.ClassType) error
	Update(ctx context.Context, classType *models.ClassType) error
	Deactivate(ctx context.Context, id string) error
}

// CreateClassTypeRequest describes payload for creating a class type.
// Color is a #RRGGBB hex code.
type CreateClassTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Acronym     string  `json:"acronym" validate:"required,min=1,max=10"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,len=7,hexcolor"`
}

// UpdateClassTypeRequest carries a partial update; only supplied fields change.
type UpdateClassTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Acronym     *string `json:"acronym" validate:"omitempty,min=1,max=10"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,len=7,hexcolor"`
	Active      *bool   `json:"active"`
}

// ClassTypeService coordinates class type CRUD with name and acronym
// uniqueness.
type ClassTypeService struct {
	repo      classTypeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassTypeService instantiates ClassTypeService.
func NewClassTypeService(repo classTypeRepository, validate *validator.Validate, logger *zap.Logger) *ClassTypeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassTypeService{repo: repo, validator: validate, logger: logger}
}

// List returns class types with pagination metadata.
func (s *ClassTypeService) List(ctx context.Context, filter models.ClassTypeFilter) ([]models.ClassType, *models.Pagination, error) {
	classTypes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class types")
	}
	pagination := &models.Pagination{Offset: filter.Offset, Limit: filter.Limit, TotalCount: total}
	return classTypes, pagination, nil
}

// Get returns a class type by id.
func (s *ClassTypeService) Get(ctx context.Context, id string) (*models.ClassType, error) {
	classType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class type")
	}
	return classType, nil
}

// Create inserts a new class type after name and acronym uniqueness checks.
func (s *ClassTypeService) Create(ctx context.Context, req CreateClassTypeRequest) (*models.ClassType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class type payload")
	}

	taken, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class type name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a class type with this name already exists")
	}

	taken, err = s.repo.ExistsByAcronym(ctx, req.Acronym, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class type acronym")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a class type with this acronym already exists")
	}

	classType := models.ClassType{
		Name:        req.Name,
		Acronym:     req.Acronym,
		Description: req.Description,
		Color:       req.Color,
		Active:      true,
	}
	if err := s.repo.Create(ctx, &classType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class type")
	}
	return &classType, nil
}

// Update applies the supplied fields to an existing class type.
func (s *ClassTypeService) Update(ctx context.Context, id string, req UpdateClassTypeRequest) (*models.ClassType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class type payload")
	}

	classType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class type")
	}

	if req.Name != nil && *req.Name != classType.Name {
		taken, err := s.repo.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class type name")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a class type with this name already exists")
		}
		classType.Name = *req.Name
	}
	if req.Acronym != nil && *req.Acronym != classType.Acronym {
		taken, err := s.repo.ExistsByAcronym(ctx, *req.Acronym, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class type acronym")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a class type with this acronym already exists")
		}
		classType.Acronym = *req.Acronym
	}
	if req.Description != nil {
		classType.Description = req.Description
	}
	if req.Color != nil {
		classType.Color = req.Color
	}
	if req.Active != nil {
		classType.Active = *req.Active
	}

	if err := s.repo.Update(ctx, classType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class type")
	}
	return classType, nil
}

// Delete soft-deletes a class type.
func (s *ClassTypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class type not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class type")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class type")
	}
	return nil
}
