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

func scheduleRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "subject_id", "class_type_id", "classroom_id", "teacher_id", "day_of_week", "start_time", "end_time", "semester", "week_start", "week_end", "notes", "active", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "sub1", "ct1", "room1", "t1", models.DayMonday, "08:00", "10:00", "2024-1", time.Now(), time.Now(), nil, true, time.Now(), time.Now())
	}
	return rows
}

func TestScheduleRepositoryFindActiveByClassroom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE classroom_id = $1 AND day_of_week = $2 AND semester = $3 AND active = TRUE ORDER BY created_at ASC, id ASC")).
		WithArgs("room1", models.DayMonday, "2024-1").
		WillReturnRows(scheduleRows("s1"))

	schedules, err := repo.FindActiveByClassroom(context.Background(), "room1", models.DayMonday, "2024-1")
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "s1", schedules[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindActiveByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE teacher_id = $1 AND day_of_week = $2 AND semester = $3 AND active = TRUE ORDER BY created_at ASC, id ASC")).
		WithArgs("t1", models.DayMonday, "2024-1").
		WillReturnRows(scheduleRows())

	schedules, err := repo.FindActiveByTeacher(context.Background(), "t1", models.DayMonday, "2024-1")
	require.NoError(t, err)
	assert.Empty(t, schedules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListActiveBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE semester = $1 AND active = TRUE ORDER BY created_at ASC, id ASC")).
		WithArgs("2024-1").
		WillReturnRows(scheduleRows("s1", "s2"))

	schedules, err := repo.ListActiveBySemester(context.Background(), "2024-1", "")
	require.NoError(t, err)
	assert.Len(t, schedules, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListActiveBySemesterForTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE semester = $1 AND active = TRUE AND teacher_id = $2 ORDER BY created_at ASC, id ASC")).
		WithArgs("2024-1", "t1").
		WillReturnRows(scheduleRows("s1"))

	schedules, err := repo.ListActiveBySemester(context.Background(), "2024-1", "t1")
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sched := &models.Schedule{
		SubjectID: "sub1", ClassTypeID: "ct1", ClassroomID: "room1", TeacherID: "t1",
		DayOfWeek: models.DayMonday, StartTime: "08:00", EndTime: "10:00",
		Semester: "2024-1", WeekStart: time.Now(), WeekEnd: time.Now(), Active: true,
	}
	require.NoError(t, repo.Create(context.Background(), sched))
	assert.NotEmpty(t, sched.ID)
	assert.False(t, sched.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("UPDATE schedules SET active = FALSE").
		WithArgs("s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
