package models

import "time"

// Teaching days recognized by the timetable.
var TimetableDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimetableEntry is a single recurring slot in the weekly class timetable.
// StartTime and EndTime are wall-clock strings in HH:mm form.
type TimetableEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Course    string `gorm:"size:255;not null;index:idx_timetable_course" json:"course"`
	Day       string `gorm:"size:10;not null;index:idx_timetable_day" json:"day"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Room      string `gorm:"size:100;not null" json:"room"`
	Faculty   string `gorm:"size:255;not null" json:"faculty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (TimetableEntry) TableName() string { return "timetable_entries" }

// TimetableFilter represents filter criteria for timetable queries.
type TimetableFilter struct {
	ID     *uint
	Course *string
	Day    *string
}
