package dto

// CreateTimetableEntryRequest represents the request payload for adding a timetable slot
type CreateTimetableEntryRequest struct {
	Course    string `json:"course" validate:"required,min=1,max=255" example:"Digital Signal Processing"`
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday" example:"Monday"`
	StartTime string `json:"start_time" validate:"required,len=5" example:"09:00"`
	EndTime   string `json:"end_time" validate:"required,len=5" example:"10:30"`
	Room      string `json:"room" validate:"required,min=1,max=100" example:"LT-204"`
	Faculty   string `json:"faculty" validate:"required,min=1,max=255" example:"Dr. Rao"`
}

// UpdateTimetableEntryRequest represents the request payload for editing a timetable slot
type UpdateTimetableEntryRequest struct {
	Course    *string `json:"course,omitempty" validate:"omitempty,min=1,max=255"`
	Day       *string `json:"day,omitempty" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,len=5"`
	EndTime   *string `json:"end_time,omitempty" validate:"omitempty,len=5"`
	Room      *string `json:"room,omitempty" validate:"omitempty,min=1,max=100"`
	Faculty   *string `json:"faculty,omitempty" validate:"omitempty,min=1,max=255"`
}

// TimetableEntryDTO represents one timetable slot returned by the API
type TimetableEntryDTO struct {
	ID        uint   `json:"id" example:"7"`
	Course    string `json:"course" example:"Digital Signal Processing"`
	Day       string `json:"day" example:"Monday"`
	StartTime string `json:"start_time" example:"09:00"`
	EndTime   string `json:"end_time" example:"10:30"`
	Room      string `json:"room" example:"LT-204"`
	Faculty   string `json:"faculty" example:"Dr. Rao"`
}

// TimetableResponse represents the full timetable grouped by day
type TimetableResponse struct {
	Days map[string][]TimetableEntryDTO `json:"days"`
}

// Common error codes for timetable operations
const (
	ErrorTimetableEntryNotFound = "TIMETABLE_ENTRY_NOT_FOUND"
	ErrorInvalidTimeRange       = "INVALID_TIME_RANGE"
)
