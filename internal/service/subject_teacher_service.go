package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
)

type subjectTeacherRepository interface {
	ListBySubject(ctx context.Context, subjectID string, activeOnly bool) ([]models.SubjectTeacher, error)
	FindByID(ctx context.Context, id string) (*models.SubjectTeacher, error)
	Exists(ctx context.Context, subjectID, teacherID string) (bool, error)
	Create(ctx context.Context, association *models.SubjectTeacher) error
	Deactivate(ctx context.Context, id string) error
}

// CreateSubjectTeacherRequest links a teacher to a subject.
type CreateSubjectTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// SubjectTeacherService manages which teachers are assigned to a subject.
type SubjectTeacherService struct {
	repo      subjectTeacherRepository
	subjects  subjectFinder
	teachers  teacherFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectTeacherService instantiates SubjectTeacherService.
func NewSubjectTeacherService(repo subjectTeacherRepository, subjects subjectFinder, teachers teacherFinder, validate *validator.Validate, logger *zap.Logger) *SubjectTeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectTeacherService{repo: repo, subjects: subjects, teachers: teachers, validator: validate, logger: logger}
}

// ListBySubject returns the teacher associations of a subject.
func (s *SubjectTeacherService) ListBySubject(ctx context.Context, subjectID string, activeOnly bool) ([]models.SubjectTeacher, error) {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	associations, err := s.repo.ListBySubject(ctx, subjectID, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject teachers")
	}
	return associations, nil
}

// Create links a teacher to a subject. Duplicate pairs are rejected even
// when the existing association is inactive.
func (s *SubjectTeacherService) Create(ctx context.Context, subjectID string, req CreateSubjectTeacherRequest) (*models.SubjectTeacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject teacher payload")
	}

	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	linked, err := s.repo.Exists(ctx, subjectID, req.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject teacher")
	}
	if linked {
		return nil, appErrors.Clone(appErrors.ErrConflict, "this teacher is already assigned to the subject")
	}

	association := models.SubjectTeacher{
		SubjectID: subjectID,
		TeacherID: req.TeacherID,
		IsPrimary: req.IsPrimary,
		Active:    true,
	}
	if err := s.repo.Create(ctx, &association); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject teacher")
	}
	return &association, nil
}

// Delete soft-deletes a subject-teacher association.
func (s *SubjectTeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject teacher association not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject teacher association")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject teacher association")
	}
	return nil
}
