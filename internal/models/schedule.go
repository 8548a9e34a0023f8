package models

import (
	"fmt"
	"time"
)

// Days of the week as stored on schedules. 0=Monday ... 6=Sunday.
const (
	DayMonday = iota
	DayTuesday
	DayWednesday
	DayThursday
	DayFriday
	DaySaturday
	DaySunday
)

// Schedule is one weekly slot: a subject taught by a teacher in a
// classroom at a recurring day/time for a semester span.
type Schedule struct {
	ID          string    `db:"id" json:"id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	ClassTypeID string    `db:"class_type_id" json:"class_type_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Semester    string    `db:"semester" json:"semester"`
	WeekStart   time.Time `db:"week_start" json:"week_start"`
	WeekEnd     time.Time `db:"week_end" json:"week_end"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Semester  string
	TeacherID string
	SubjectID string
	Active    *bool
	Offset    int
	Limit     int
}

// Conflict dimensions. Classroom and teacher are independent exclusive
// resources and are reported distinctly.
const (
	ConflictClassroom = "CLASSROOM"
	ConflictTeacher   = "TEACHER"
)

// ScheduleConflict describes an existing slot that causes a conflict.
type ScheduleConflict struct {
	ScheduleID string `json:"schedule_id"`
	Dimension  string `json:"dimension"`
	DayOfWeek  int    `json:"day_of_week"`
	Semester   string `json:"semester"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// ScheduleConflictError is returned when a slot collides with an existing one.
type ScheduleConflictError struct {
	Dimension string           `json:"dimension"`
	Message   string           `json:"message"`
	Conflict  ScheduleConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// ClockMinutes parses an "HH:MM" clock string into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Abutting intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
