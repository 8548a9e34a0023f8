package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
)

type mockScheduleRepo struct {
	items       []*models.Schedule
	deactivated []string
}

func (m *mockScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	var out []models.Schedule
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, len(out), nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	for _, item := range m.items {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) FindActiveByClassroom(ctx context.Context, classroomID string, dayOfWeek int, semester string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, item := range m.items {
		if item.Active && item.ClassroomID == classroomID && item.DayOfWeek == dayOfWeek && item.Semester == semester {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) FindActiveByTeacher(ctx context.Context, teacherID string, dayOfWeek int, semester string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, item := range m.items {
		if item.Active && item.TeacherID == teacherID && item.DayOfWeek == dayOfWeek && item.Semester == semester {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ListActiveBySemester(ctx context.Context, semester, teacherID string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, item := range m.items {
		if !item.Active || item.Semester != semester {
			continue
		}
		if teacherID != "" && item.TeacherID != teacherID {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = "generated"
	}
	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	cp := *schedule
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	for i, item := range m.items {
		if item.ID == schedule.ID {
			cp := *schedule
			m.items[i] = &cp
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockScheduleRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	for _, item := range m.items {
		if item.ID == id {
			item.Active = false
		}
	}
	return nil
}

type mockSubjectFinder struct{ items map[string]*models.Subject }

func (m *mockSubjectFinder) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockClassTypeFinder struct{ items map[string]*models.ClassType }

func (m *mockClassTypeFinder) FindByID(ctx context.Context, id string) (*models.ClassType, error) {
	if ct, ok := m.items[id]; ok {
		cp := *ct
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockClassroomFinder struct{ items map[string]*models.Classroom }

func (m *mockClassroomFinder) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	if room, ok := m.items[id]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockTeacherFinder struct{ items map[string]*models.Teacher }

func (m *mockTeacherFinder) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockInvalidator struct{ patterns []string }

func (m *mockInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func scheduleFixtures() (*mockSubjectFinder, *mockClassTypeFinder, *mockClassroomFinder, *mockTeacherFinder) {
	subjects := &mockSubjectFinder{items: map[string]*models.Subject{
		"sub1": {ID: "sub1", Code: "INF101", Name: "Programación I", Acronym: "PROG1", Active: true},
		"sub2": {ID: "sub2", Code: "MAT101", Name: "Cálculo I", Acronym: "CALC1", Active: true},
	}}
	classTypes := &mockClassTypeFinder{items: map[string]*models.ClassType{
		"ct1": {ID: "ct1", Name: "Conferencia", Acronym: "CONF", Active: true},
		"ct2": {ID: "ct2", Name: "Laboratorio", Acronym: "LAB", Active: true},
	}}
	classrooms := &mockClassroomFinder{items: map[string]*models.Classroom{
		"room1": {ID: "room1", Code: "A101", Name: "Aula 101", Active: true},
		"room2": {ID: "room2", Code: "A102", Name: "Aula 102", Active: true},
	}}
	teachers := &mockTeacherFinder{items: map[string]*models.Teacher{
		"t1": {ID: "t1", EmployeeID: "T001", FirstName: "Juan", LastName: "Pérez", Email: "juan.perez@cujae.edu.cu", Active: true},
		"t2": {ID: "t2", EmployeeID: "T002", FirstName: "María", LastName: "García", Email: "maria.garcia@cujae.edu.cu", Active: true},
	}}
	return subjects, classTypes, classrooms, teachers
}

func newScheduleService(repo *mockScheduleRepo, cache exportCacheInvalidator) *ScheduleService {
	subjects, classTypes, classrooms, teachers := scheduleFixtures()
	return NewScheduleService(repo, subjects, classTypes, classrooms, teachers, cache, nil, validator.New(), zap.NewNop())
}

func day(d int) *int { return &d }

func baseCreateRequest() CreateScheduleRequest {
	return CreateScheduleRequest{
		SubjectID:   "sub1",
		ClassTypeID: "ct1",
		ClassroomID: "room1",
		TeacherID:   "t1",
		DayOfWeek:   day(models.DayMonday),
		StartTime:   "08:00",
		EndTime:     "10:00",
		Semester:    "2024-1",
		WeekStart:   "2024-02-05",
		WeekEnd:     "2024-06-28",
	}
}

func existingSlot(id, classroomID, teacherID, start, end string) *models.Schedule {
	return &models.Schedule{
		ID: id, SubjectID: "sub2", ClassTypeID: "ct1", ClassroomID: classroomID, TeacherID: teacherID,
		DayOfWeek: models.DayMonday, StartTime: start, EndTime: end,
		Semester: "2024-1", Active: true,
	}
}

func TestScheduleServiceCreate(t *testing.T) {
	repo := &mockScheduleRepo{}
	cache := &mockInvalidator{}
	svc := newScheduleService(repo, cache)

	schedule, err := svc.Create(context.Background(), baseCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.DayMonday, schedule.DayOfWeek)
	assert.True(t, schedule.Active)
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), schedule.WeekStart)
	assert.Len(t, repo.items, 1)
	assert.Equal(t, []string{"export:2024-1:*"}, cache.patterns)
}

func TestScheduleServiceCreateClassroomConflict(t *testing.T) {
	// Same classroom, different teacher, overlapping window.
	repo := &mockScheduleRepo{items: []*models.Schedule{existingSlot("s1", "room1", "t2", "09:00", "11:00")}}
	svc := newScheduleService(repo, nil)

	_, err := svc.Create(context.Background(), baseCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	var conflictErr *models.ScheduleConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictClassroom, conflictErr.Dimension)
	assert.Equal(t, "s1", conflictErr.Conflict.ScheduleID)
}

func TestScheduleServiceCreateTeacherConflict(t *testing.T) {
	// Different classroom, same teacher, overlapping window.
	repo := &mockScheduleRepo{items: []*models.Schedule{existingSlot("s1", "room2", "t1", "09:00", "11:00")}}
	svc := newScheduleService(repo, nil)

	_, err := svc.Create(context.Background(), baseCreateRequest())
	require.Error(t, err)

	var conflictErr *models.ScheduleConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictTeacher, conflictErr.Dimension)
}

func TestScheduleServiceCreateAbuttingSlotsAllowed(t *testing.T) {
	// Existing 10:00-12:00 in the same room; new 08:00-10:00 abuts it.
	repo := &mockScheduleRepo{items: []*models.Schedule{existingSlot("s1", "room1", "t1", "10:00", "12:00")}}
	svc := newScheduleService(repo, nil)

	_, err := svc.Create(context.Background(), baseCreateRequest())
	require.NoError(t, err)
}

func TestScheduleServiceCreateIgnoresInactiveSlots(t *testing.T) {
	deleted := existingSlot("s1", "room1", "t1", "08:00", "10:00")
	deleted.Active = false
	repo := &mockScheduleRepo{items: []*models.Schedule{deleted}}
	svc := newScheduleService(repo, nil)

	_, err := svc.Create(context.Background(), baseCreateRequest())
	require.NoError(t, err)
}

func TestScheduleServiceCreateRejectsInvertedTimes(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, nil)

	req := baseCreateRequest()
	req.StartTime = "10:00"
	req.EndTime = "08:00"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req.EndTime = "10:00"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err, "zero-length slot must be rejected")
}

func TestScheduleServiceCreateUnknownReferences(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, nil)

	req := baseCreateRequest()
	req.SubjectID = "missing"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	assert.Contains(t, appErrors.FromError(err).Message, "subject")

	req = baseCreateRequest()
	req.TeacherID = "missing"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "teacher")

	req = baseCreateRequest()
	req.ClassroomID = "missing"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "classroom")

	req = baseCreateRequest()
	req.ClassTypeID = "missing"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "class type")
}

func TestScheduleServiceUpdateExcludesOwnSlot(t *testing.T) {
	// Shifting a slot within its own window must not conflict with itself.
	repo := &mockScheduleRepo{items: []*models.Schedule{existingSlot("s1", "room1", "t1", "08:00", "10:00")}}
	svc := newScheduleService(repo, nil)

	start := "09:00"
	end := "11:00"
	updated, err := svc.Update(context.Background(), "s1", UpdateScheduleRequest{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "11:00", updated.EndTime)
}

func TestScheduleServiceUpdateConflictsWithOtherSlot(t *testing.T) {
	repo := &mockScheduleRepo{items: []*models.Schedule{
		existingSlot("s1", "room1", "t1", "08:00", "10:00"),
		existingSlot("s2", "room1", "t2", "10:00", "12:00"),
	}}
	svc := newScheduleService(repo, nil)

	end := "11:00"
	_, err := svc.Update(context.Background(), "s1", UpdateScheduleRequest{EndTime: &end})
	require.Error(t, err)

	var conflictErr *models.ScheduleConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, "s2", conflictErr.Conflict.ScheduleID)
}

func TestScheduleServiceUpdatePartialLeavesOtherFields(t *testing.T) {
	notes := "aula con proyector"
	slot := existingSlot("s1", "room1", "t1", "08:00", "10:00")
	repo := &mockScheduleRepo{items: []*models.Schedule{slot}}
	svc := newScheduleService(repo, nil)

	updated, err := svc.Update(context.Background(), "s1", UpdateScheduleRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "08:00", updated.StartTime)
	assert.Equal(t, "room1", updated.ClassroomID)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
}

func TestScheduleServiceDeleteSoftDeletes(t *testing.T) {
	repo := &mockScheduleRepo{items: []*models.Schedule{existingSlot("s1", "room1", "t1", "08:00", "10:00")}}
	cache := &mockInvalidator{}
	svc := newScheduleService(repo, cache)

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deactivated)
	assert.Equal(t, []string{"export:2024-1:*"}, cache.patterns)

	// The slot stays fetchable by id after deletion.
	schedule, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, schedule.Active)
}

func TestScheduleServiceDeleteNotFound(t *testing.T) {
	svc := newScheduleService(&mockScheduleRepo{}, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
