package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cujae-dev/horarios-api/internal/models"
)

const subjectTeacherColumns = "id, subject_id, teacher_id, is_primary, active, created_at, updated_at"

// SubjectTeacherRepository manages subject-teacher associations.
type SubjectTeacherRepository struct {
	db *sqlx.DB
}

// NewSubjectTeacherRepository constructs a SubjectTeacherRepository.
func NewSubjectTeacherRepository(db *sqlx.DB) *SubjectTeacherRepository {
	return &SubjectTeacherRepository{db: db}
}

// ListBySubject returns associations for a subject in insertion order.
func (r *SubjectTeacherRepository) ListBySubject(ctx context.Context, subjectID string, activeOnly bool) ([]models.SubjectTeacher, error) {
	query := fmt.Sprintf("SELECT %s FROM subject_teachers WHERE subject_id = $1", subjectTeacherColumns)
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY created_at ASC, id ASC"

	var associations []models.SubjectTeacher
	if err := r.db.SelectContext(ctx, &associations, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject teachers: %w", err)
	}
	return associations, nil
}

// FindByID loads an association by id.
func (r *SubjectTeacherRepository) FindByID(ctx context.Context, id string) (*models.SubjectTeacher, error) {
	query := fmt.Sprintf("SELECT %s FROM subject_teachers WHERE id = $1", subjectTeacherColumns)
	var association models.SubjectTeacher
	if err := r.db.GetContext(ctx, &association, query, id); err != nil {
		return nil, err
	}
	return &association, nil
}

// Exists checks whether the subject-teacher pair is already associated.
func (r *SubjectTeacherRepository) Exists(ctx context.Context, subjectID, teacherID string) (bool, error) {
	const query = `SELECT 1 FROM subject_teachers WHERE subject_id = $1 AND teacher_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, subjectID, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject teacher: %w", err)
	}
	return true, nil
}

// Create inserts a new association record.
func (r *SubjectTeacherRepository) Create(ctx context.Context, association *models.SubjectTeacher) error {
	if association.ID == "" {
		association.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if association.CreatedAt.IsZero() {
		association.CreatedAt = now
	}
	association.UpdatedAt = now

	const query = `INSERT INTO subject_teachers (id, subject_id, teacher_id, is_primary, active, created_at, updated_at)
		VALUES (:id, :subject_id, :teacher_id, :is_primary, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, association); err != nil {
		return fmt.Errorf("create subject teacher: %w", err)
	}
	return nil
}

// Deactivate sets an association's active flag to false.
func (r *SubjectTeacherRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE subject_teachers SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate subject teacher: %w", err)
	}
	return nil
}
