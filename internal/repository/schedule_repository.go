package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cujae-dev/horarios-api/internal/models"
)

const scheduleColumns = "id, subject_id, class_type_id, classroom_id, teacher_id, day_of_week, start_time, end_time, semester, week_start, week_end, notes, active, created_at, updated_at"

// ScheduleRepository provides persistence for weekly schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules with optional filtering and pagination, in
// insertion order.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	base := "FROM schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC, id ASC LIMIT %d OFFSET %d", scheduleColumns, base, limit, offset)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return schedules, total, nil
}

// FindByID loads a schedule by id regardless of its active flag.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE id = $1", scheduleColumns)
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// FindActiveByClassroom returns active slots for a classroom on the given
// day and semester, for overlap checking.
func (r *ScheduleRepository) FindActiveByClassroom(ctx context.Context, classroomID string, dayOfWeek int, semester string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE classroom_id = $1 AND day_of_week = $2 AND semester = $3 AND active = TRUE ORDER BY created_at ASC, id ASC", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, classroomID, dayOfWeek, semester); err != nil {
		return nil, fmt.Errorf("find classroom schedules: %w", err)
	}
	return schedules, nil
}

// FindActiveByTeacher returns active slots for a teacher on the given day
// and semester, for overlap checking.
func (r *ScheduleRepository) FindActiveByTeacher(ctx context.Context, teacherID string, dayOfWeek int, semester string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE teacher_id = $1 AND day_of_week = $2 AND semester = $3 AND active = TRUE ORDER BY created_at ASC, id ASC", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, teacherID, dayOfWeek, semester); err != nil {
		return nil, fmt.Errorf("find teacher schedules: %w", err)
	}
	return schedules, nil
}

// ListActiveBySemester returns every active slot for a semester,
// optionally restricted to one teacher, in insertion order.
func (r *ScheduleRepository) ListActiveBySemester(ctx context.Context, semester, teacherID string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE semester = $1 AND active = TRUE", scheduleColumns)
	args := []interface{}{semester}
	if teacherID != "" {
		query += " AND teacher_id = $2"
		args = append(args, teacherID)
	}
	query += " ORDER BY created_at ASC, id ASC"

	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list semester schedules: %w", err)
	}
	return schedules, nil
}

// Create stores a new schedule record.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (id, subject_id, class_type_id, classroom_id, teacher_id, day_of_week, start_time, end_time, semester, week_start, week_end, notes, active, created_at, updated_at)
		VALUES (:id, :subject_id, :class_type_id, :classroom_id, :teacher_id, :day_of_week, :start_time, :end_time, :semester, :week_start, :week_end, :notes, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies a schedule record.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET subject_id = :subject_id, class_type_id = :class_type_id, classroom_id = :classroom_id, teacher_id = :teacher_id, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, semester = :semester, week_start = :week_start, week_end = :week_end, notes = :notes, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Deactivate sets a schedule's active flag to false.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE schedules SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate schedule: %w", err)
	}
	return nil
}
