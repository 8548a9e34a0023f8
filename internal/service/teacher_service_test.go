package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cujae-dev/horarios-api/internal/models"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
)

type mockTeacherRepo struct {
	items         map[string]*models.Teacher
	emailIndex    map[string]string
	employeeIndex map[string]string
	deactivated   []string
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, teacher := range m.items {
		out = append(out, *teacher)
	}
	return out, len(out), nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if owner, ok := m.emailIndex[email]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) ExistsByEmployeeID(ctx context.Context, employeeID, excludeID string) (bool, error) {
	if owner, ok := m.employeeIndex[employeeID]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[string]*models.Teacher)
	}
	if teacher.ID == "" {
		teacher.ID = "generated"
	}
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	if teacher, ok := m.items[id]; ok {
		teacher.Active = false
	}
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		EmployeeID: "T001",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "juan.perez@cujae.edu.cu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", teacher.FullName())
	assert.True(t, teacher.Active)
}

func TestTeacherServiceCreateDuplicateEmployeeID(t *testing.T) {
	repo := &mockTeacherRepo{employeeIndex: map[string]string{"T001": "other"}}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		EmployeeID: "T001",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "juan.perez@cujae.edu.cu",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockTeacherRepo{emailIndex: map[string]string{"juan.perez@cujae.edu.cu": "other"}}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		EmployeeID: "T001",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "juan.perez@cujae.edu.cu",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateInvalidEmail(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		EmployeeID: "T001",
		FirstName:  "Juan",
		LastName:   "Pérez",
		Email:      "not-an-email",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceUpdatePartial(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", EmployeeID: "T001", FirstName: "Juan", LastName: "Pérez", Email: "juan.perez@cujae.edu.cu", Active: true},
		},
		emailIndex:    map[string]string{"juan.perez@cujae.edu.cu": "t1"},
		employeeIndex: map[string]string{"T001": "t1"},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	phone := "+53 5 123 4567"
	updated, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "T001", updated.EmployeeID)
	assert.Equal(t, "juan.perez@cujae.edu.cu", updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestTeacherServiceUpdateEmailTaken(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", EmployeeID: "T001", FirstName: "Juan", LastName: "Pérez", Email: "juan.perez@cujae.edu.cu", Active: true},
		},
		emailIndex: map[string]string{
			"juan.perez@cujae.edu.cu":   "t1",
			"maria.garcia@cujae.edu.cu": "t2",
		},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	email := "maria.garcia@cujae.edu.cu"
	_, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{Email: &email})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDelete(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[string]*models.Teacher{
			"t1": {ID: "t1", EmployeeID: "T001", FirstName: "Juan", LastName: "Pérez", Email: "juan.perez@cujae.edu.cu", Active: true},
		},
	}
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "t1"))
	assert.Equal(t, []string{"t1"}, repo.deactivated)
}
