package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cujae-dev/horarios-api/internal/models"
)

const classTypeColumns = "id, name, acronym, description, color, active, created_at, updated_at"

// ClassTypeRepository manages persistence for class types.
type ClassTypeRepository struct {
	db *sqlx.DB
}

// NewClassTypeRepository constructs a ClassTypeRepository.
func NewClassTypeRepository(db *sqlx.DB) *ClassTypeRepository {
	return &ClassTypeRepository{db: db}
}

// List returns class types matching filters along with the total count.
func (r *ClassTypeRepository) List(ctx context.Context, filter models.ClassTypeFilter) ([]models.ClassType, int, error) {
	base := "FROM class_types WHERE 1=1"
	var conditions []string
	var args []interface{}

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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC, id ASC LIMIT %d OFFSET %d", classTypeColumns, base, limit, offset)
	var classTypes []models.ClassType
	if err := r.db.SelectContext(ctx, &classTypes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class types: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count class types: %w", err)
	}

	return classTypes, total, nil
}

// FindByID fetches a class type by ID regardless of its active flag.
func (r *ClassTypeRepository) FindByID(ctx context.Context, id string) (*models.ClassType, error) {
	query := fmt.Sprintf("SELECT %s FROM class_types WHERE id = $1", classTypeColumns)
	var classType models.ClassType
	if err := r.db.GetContext(ctx, &classType, query, id); err != nil {
		return nil, err
	}
	return &classType, nil
}

// ExistsByName checks if another class type uses the same name.
func (r *ClassTypeRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return r.existsBy(ctx, "name", name, excludeID)
}

// ExistsByAcronym checks if another class type uses the same acronym.
func (r *ClassTypeRepository) ExistsByAcronym(ctx context.Context, acronym, excludeID string) (bool, error) {
	return r.existsBy(ctx, "acronym", acronym, excludeID)
}

func (r *ClassTypeRepository) existsBy(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM class_types WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class type %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new class type record.
func (r *ClassTypeRepository) Create(ctx context.Context, classType *models.ClassType) error {
	if classType.ID == "" {
		classType.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if classType.CreatedAt.IsZero() {
		classType.CreatedAt = now
	}
	classType.UpdatedAt = now

	const query = `INSERT INTO class_types (id, name, acronym, description, color, active, created_at, updated_at)
		VALUES (:id, :name, :acronym, :description, :color, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classType); err != nil {
		return fmt.Errorf("create class type: %w", err)
	}
	return nil
}

// Update modifies an existing class type record.
func (r *ClassTypeRepository) Update(ctx context.Context, classType *models.ClassType) error {
	classType.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_types SET name = :name, acronym = :acronym, description = :description, color = :color, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, classType); err != nil {
		return fmt.Errorf("update class type: %w", err)
	}
	return nil
}

// Deactivate sets a class type's active flag to false.
func (r *ClassTypeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE class_types SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate class type: %w", err)
	}
	return nil
}
