package models

import (
	"time"

	"github.com/lib/pq"
)

// Note is a study document published by an admin. The document itself lives
// in an external link-based host (Google Drive); the portal stores only the
// file ID and the direct download URL.
//
// Branches and Semesters are PostgreSQL arrays and, together with
// YearOfStudy, form the note's audience targeting. Empty arrays and a NULL
// year mean the note is visible to everyone on that dimension.
type Note struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Course      string         `gorm:"size:255;not null;index:idx_notes_course" json:"course"`
	FileID      string         `gorm:"size:255;not null" json:"file_id"`
	DriveURL    string         `gorm:"size:1024;not null" json:"drive_url"`
	Branches    pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"branches"`
	Semesters   pq.Int32Array  `gorm:"type:integer[];not null;default:'{}'" json:"semesters"`
	YearOfStudy *int           `json:"year_of_study,omitempty"`
	CreatedBy   uint           `gorm:"not null;index:idx_notes_created_by" json:"created_by"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_notes_created_at" json:"created_at"`
}

func (Note) TableName() string { return "notes" }

// NoteFilter represents filter criteria for note queries.
type NoteFilter struct {
	ID            *uint
	Course        *string
	CreatedBy     *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
