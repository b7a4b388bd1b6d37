package models

import "time"

// Event is a campus event published by an admin. Publishing an event fans
// out an EVENT notification to every user.
type Event struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	StartsAt    time.Time `gorm:"not null;index:idx_events_starts_at" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// EventFilter represents filter criteria for event queries.
type EventFilter struct {
	ID          *uint
	CreatedBy   *uint
	StartsAfter *time.Time
	EndsBefore  *time.Time
}
