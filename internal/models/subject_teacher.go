package models

import "time"

// SubjectTeacher associates a teacher with a subject. At most one
// association per subject is conventionally marked primary; this is not
// enforced as a hard invariant.
type SubjectTeacher struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
