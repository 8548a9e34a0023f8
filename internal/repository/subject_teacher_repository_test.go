package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cujae-dev/horarios-api/internal/models"
)

func TestSubjectTeacherRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM subject_teachers WHERE subject_id = $1 AND teacher_id = $2 LIMIT 1")).
		WithArgs("sub1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "sub1", "t1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectTeacherRepositoryListBySubjectActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subject_id", "teacher_id", "is_primary", "active", "created_at", "updated_at"}).
		AddRow("st1", "sub1", "t1", true, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM subject_teachers WHERE subject_id = $1 AND active = TRUE ORDER BY created_at ASC, id ASC")).
		WithArgs("sub1").
		WillReturnRows(rows)

	associations, err := repo.ListBySubject(context.Background(), "sub1", true)
	require.NoError(t, err)
	require.Len(t, associations, 1)
	assert.True(t, associations[0].IsPrimary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectTeacherRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectTeacherRepository(db)

	mock.ExpectExec("INSERT INTO subject_teachers").
		WillReturnResult(sqlmock.NewResult(1, 1))

	association := &models.SubjectTeacher{SubjectID: "sub1", TeacherID: "t1", IsPrimary: true, Active: true}
	require.NoError(t, repo.Create(context.Background(), association))
	assert.NotEmpty(t, association.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
