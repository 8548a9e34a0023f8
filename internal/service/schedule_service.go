package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindActiveByClassroom(ctx context.Context, classroomID string, dayOfWeek int, semester string) ([]models.Schedule, error)
	FindActiveByTeacher(ctx context.Context, teacherID string, dayOfWeek int, semester string) ([]models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Deactivate(ctx context.Context, id string) error
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type classTypeFinder interface {
	FindByID(ctx context.Context, id string) (*models.ClassType, error)
}

type classroomFinder interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type teacherFinder interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type exportCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateScheduleRequest describes payload for creating a schedule slot.
// Times are "HH:MM" clock strings; dates are "YYYY-MM-DD".
type CreateScheduleRequest struct {
	SubjectID   string  `json:"subject_id" validate:"required"`
	ClassTypeID string  `json:"class_type_id" validate:"required"`
	ClassroomID string  `json:"classroom_id" validate:"required"`
	TeacherID   string  `json:"teacher_id" validate:"required"`
	DayOfWeek   *int    `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string  `json:"end_time" validate:"required,datetime=15:04"`
	Semester    string  `json:"semester" validate:"required,min=1,max=20"`
	WeekStart   string  `json:"week_start" validate:"required,datetime=2006-01-02"`
	WeekEnd     string  `json:"week_end" validate:"required,datetime=2006-01-02"`
	Notes       *string `json:"notes"`
}

// UpdateScheduleRequest carries a partial update; only supplied fields change.
type UpdateScheduleRequest struct {
	SubjectID   *string `json:"subject_id" validate:"omitempty,min=1"`
	ClassTypeID *string `json:"class_type_id" validate:"omitempty,min=1"`
	ClassroomID *string `json:"classroom_id" validate:"omitempty,min=1"`
	TeacherID   *string `json:"teacher_id" validate:"omitempty,min=1"`
	DayOfWeek   *int    `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Semester    *string `json:"semester" validate:"omitempty,min=1,max=20"`
	WeekStart   *string `json:"week_start" validate:"omitempty,datetime=2006-01-02"`
	WeekEnd     *string `json:"week_end" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string `json:"notes"`
	Active      *bool   `json:"active"`
}

// ScheduleService coordinates slot CRUD and overlap detection. The
// conflict check is read-then-write with no cross-request locking: two
// near-simultaneous creates for overlapping slots can both pass. The
// store's row-level discipline is the only guard.
type ScheduleService struct {
	repo       scheduleRepository
	subjects   subjectFinder
	classTypes classTypeFinder
	classrooms classroomFinder
	teachers   teacherFinder
	cache      exportCacheInvalidator
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleService instantiates ScheduleService. cache and metrics may
// be nil.
func NewScheduleService(repo scheduleRepository, subjects subjectFinder, classTypes classTypeFinder, classrooms classroomFinder, teachers teacherFinder, cache exportCacheInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:       repo,
		subjects:   subjects,
		classTypes: classTypes,
		classrooms: classrooms,
		teachers:   teachers,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// List returns schedules with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	pagination := &models.Pagination{Offset: filter.Offset, Limit: filter.Limit, TotalCount: total}
	return schedules, pagination, nil
}

// Get returns a schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create inserts a new slot after reference, time-order and conflict checks.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := validateTimeOrder(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.SubjectID, req.ClassTypeID, req.ClassroomID, req.TeacherID); err != nil {
		return nil, err
	}

	weekStart, _ := time.Parse(dateLayout, req.WeekStart)
	weekEnd, _ := time.Parse(dateLayout, req.WeekEnd)

	schedule := models.Schedule{
		SubjectID:   req.SubjectID,
		ClassTypeID: req.ClassTypeID,
		ClassroomID: req.ClassroomID,
		TeacherID:   req.TeacherID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Semester:    req.Semester,
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		Notes:       req.Notes,
		Active:      true,
	}

	if err := s.ensureNoConflict(ctx, schedule, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	s.invalidateExports(ctx, schedule.Semester)
	return &schedule, nil
}

// Update applies the supplied fields to an existing slot, re-running the
// conflict check with the slot's own id excluded.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	previousSemester := schedule.Semester

	if req.SubjectID != nil && *req.SubjectID != schedule.SubjectID {
		if err := s.checkSubject(ctx, *req.SubjectID); err != nil {
			return nil, err
		}
		schedule.SubjectID = *req.SubjectID
	}
	if req.ClassTypeID != nil && *req.ClassTypeID != schedule.ClassTypeID {
		if err := s.checkClassType(ctx, *req.ClassTypeID); err != nil {
			return nil, err
		}
		schedule.ClassTypeID = *req.ClassTypeID
	}
	if req.ClassroomID != nil && *req.ClassroomID != schedule.ClassroomID {
		if err := s.checkClassroom(ctx, *req.ClassroomID); err != nil {
			return nil, err
		}
		schedule.ClassroomID = *req.ClassroomID
	}
	if req.TeacherID != nil && *req.TeacherID != schedule.TeacherID {
		if err := s.checkTeacher(ctx, *req.TeacherID); err != nil {
			return nil, err
		}
		schedule.TeacherID = *req.TeacherID
	}
	if req.DayOfWeek != nil {
		schedule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.Semester != nil {
		schedule.Semester = *req.Semester
	}
	if req.WeekStart != nil {
		weekStart, _ := time.Parse(dateLayout, *req.WeekStart)
		schedule.WeekStart = weekStart
	}
	if req.WeekEnd != nil {
		weekEnd, _ := time.Parse(dateLayout, *req.WeekEnd)
		schedule.WeekEnd = weekEnd
	}
	if req.Notes != nil {
		schedule.Notes = req.Notes
	}
	if req.Active != nil {
		schedule.Active = *req.Active
	}

	if err := validateTimeOrder(schedule.StartTime, schedule.EndTime); err != nil {
		return nil, err
	}
	if schedule.Active {
		if err := s.ensureNoConflict(ctx, *schedule, schedule.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	s.invalidateExports(ctx, previousSemester)
	if schedule.Semester != previousSemester {
		s.invalidateExports(ctx, schedule.Semester)
	}
	return schedule, nil
}

// Delete soft-deletes a slot; it no longer participates in conflict
// checks or exports but stays fetchable by id.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.invalidateExports(ctx, schedule.Semester)
	return nil
}

func (s *ScheduleService) checkReferences(ctx context.Context, subjectID, classTypeID, classroomID, teacherID string) error {
	if err := s.checkSubject(ctx, subjectID); err != nil {
		return err
	}
	if err := s.checkClassType(ctx, classTypeID); err != nil {
		return err
	}
	if err := s.checkClassroom(ctx, classroomID); err != nil {
		return err
	}
	return s.checkTeacher(ctx, teacherID)
}

func (s *ScheduleService) checkSubject(ctx context.Context, id string) error {
	if _, err := s.subjects.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return nil
}

func (s *ScheduleService) checkClassType(ctx context.Context, id string) error {
	if _, err := s.classTypes.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "class type not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class type")
	}
	return nil
}

func (s *ScheduleService) checkClassroom(ctx context.Context, id string) error {
	if _, err := s.classrooms.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return nil
}

func (s *ScheduleService) checkTeacher(ctx context.Context, id string) error {
	if _, err := s.teachers.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return nil
}

// ensureNoConflict checks the candidate against active slots sharing the
// same classroom, then the same teacher, within its day and semester.
// Two slots collide when their [start,end) intervals intersect; abutting
// slots never collide.
func (s *ScheduleService) ensureNoConflict(ctx context.Context, schedule models.Schedule, ignoreID string) error {
	start, err := models.ClockMinutes(schedule.StartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	end, err := models.ClockMinutes(schedule.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}

	byClassroom, err := s.repo.FindActiveByClassroom(ctx, schedule.ClassroomID, schedule.DayOfWeek, schedule.Semester)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check classroom conflicts")
	}
	if err := s.findOverlap(byClassroom, start, end, ignoreID, models.ConflictClassroom, "classroom is already booked at this time"); err != nil {
		return err
	}

	byTeacher, err := s.repo.FindActiveByTeacher(ctx, schedule.TeacherID, schedule.DayOfWeek, schedule.Semester)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher conflicts")
	}
	return s.findOverlap(byTeacher, start, end, ignoreID, models.ConflictTeacher, "teacher already has a class at this time")
}

func (s *ScheduleService) findOverlap(existing []models.Schedule, start, end int, ignoreID, dimension, message string) error {
	for _, item := range existing {
		if item.ID == ignoreID {
			continue
		}
		itemStart, err := models.ClockMinutes(item.StartTime)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule has invalid start time")
		}
		itemEnd, err := models.ClockMinutes(item.EndTime)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule has invalid end time")
		}
		if models.Overlaps(start, end, itemStart, itemEnd) {
			return s.wrapConflict(dimension, message, item)
		}
	}
	return nil
}

func (s *ScheduleService) wrapConflict(dimension, message string, existing models.Schedule) error {
	s.metrics.RecordScheduleConflict(dimension)
	conflict := models.ScheduleConflict{
		ScheduleID: existing.ID,
		Dimension:  dimension,
		DayOfWeek:  existing.DayOfWeek,
		Semester:   existing.Semester,
		StartTime:  existing.StartTime,
		EndTime:    existing.EndTime,
	}
	domainErr := &models.ScheduleConflictError{Dimension: dimension, Message: message, Conflict: conflict}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("schedule conflict: %s", message))
}

func (s *ScheduleService) invalidateExports(ctx context.Context, semester string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, exportCachePrefix+semester+":*"); err != nil {
		s.logger.Warn("export cache invalidation failed", zap.String("semester", semester), zap.Error(err))
	}
}

func validateTimeOrder(start, end string) error {
	startMin, err := models.ClockMinutes(start)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	endMin, err := models.ClockMinutes(end)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}
	if startMin >= endMin {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return nil
}
