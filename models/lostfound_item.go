package models

import "time"

// Lost & found item statuses.
const (
	LostFoundStatusLost    = "lost"
	LostFoundStatusFound   = "found"
	LostFoundStatusClaimed = "claimed"
)

// LostFoundItem is a lost-or-found report filed by any authenticated user.
// Filing one broadcasts a LOST_FOUND notification to the whole campus.
type LostFoundItem struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName    string `gorm:"size:255;not null" json:"item_name"`
	Description string `gorm:"type:text;not null" json:"description"`
	Status      string `gorm:"size:10;not null;index:idx_lostfound_status" json:"status"`
	Contact     string `gorm:"size:255;not null" json:"contact"`
	UserID      uint   `gorm:"not null;index:idx_lostfound_user" json:"user_id"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_lostfound_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (LostFoundItem) TableName() string { return "lostfound_items" }

// LostFoundFilter represents filter criteria for lost & found queries.
type LostFoundFilter struct {
	ID            *uint
	Status        *string
	UserID        *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
