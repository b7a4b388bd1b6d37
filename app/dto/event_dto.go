package dto

import "time"

// CreateEventRequest represents the request payload for publishing a campus event
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255" example:"TechFest 2026"`
	Description string    `json:"description" validate:"required,min=1" example:"Annual technical festival, main auditorium."`
	StartsAt    time.Time `json:"starts_at" validate:"required" example:"2026-03-12T09:00:00Z"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt" example:"2026-03-14T18:00:00Z"`
}

// UpdateEventRequest represents the request payload for editing an event
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// EventDTO represents a campus event returned by the API
type EventDTO struct {
	ID          uint   `json:"id" example:"3"`
	Title       string `json:"title" example:"TechFest 2026"`
	Description string `json:"description" example:"Annual technical festival, main auditorium."`
	StartsAt    string `json:"starts_at" example:"2026-03-12T09:00:00Z"`
	EndsAt      string `json:"ends_at" example:"2026-03-14T18:00:00Z"`
	CreatedAt   string `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// ListEventsResponse represents upcoming events ordered by start time
type ListEventsResponse struct {
	Events []EventDTO `json:"events"`
	Total  int        `json:"total" example:"4"`
}

// Common error codes for event operations
const (
	ErrorEventNotFound = "EVENT_NOT_FOUND"
)
