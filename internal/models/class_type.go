package models

import "time"

// ClassType categorises a schedule slot (lecture, lab, seminar, ...).
type ClassType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Acronym     string    `db:"acronym" json:"acronym"`
	Description *string   `db:"description" json:"description,omitempty"`
	Color       *string   `db:"color" json:"color,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassTypeFilter describes query params for listing class types.
type ClassTypeFilter struct {
	Active *bool
	Offset int
	Limit  int
}
