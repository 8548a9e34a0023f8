package models

import "time"

// Classroom represents a teaching room identified by a unique code.
type Classroom struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Building    *string   `db:"building" json:"building,omitempty"`
	Floor       *int      `db:"floor" json:"floor,omitempty"`
	Capacity    *int      `db:"capacity" json:"capacity,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter describes query params for listing classrooms.
type ClassroomFilter struct {
	Active *bool
	Offset int
	Limit  int
}
