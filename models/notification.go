package models

import "time"

// Notification types delivered to the in-app notification center.
const (
	NotificationTypeClassUpdate = "CLASS_UPDATE"
	NotificationTypeNewNote     = "NEW_NOTE"
	NotificationTypeEvent       = "EVENT"
	NotificationTypeLostFound   = "LOST_FOUND"
)

// Notification is one row per recipient produced by a publish fan-out.
// Rows are independent inserts with no cross-row invariant; duplicate rows
// from a retried fan-out are acceptable (delivery is at-least-once).
type Notification struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint    `gorm:"not null;index:idx_notifications_user_created" json:"user_id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Type        string  `gorm:"size:20;not null" json:"type"`
	Link        *string `gorm:"size:1024" json:"link,omitempty"`
	Read        bool    `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_notifications_user_created" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationFilter represents filter criteria for notification queries.
type NotificationFilter struct {
	ID     *uint
	UserID *uint
	Read   *bool
	Type   *string
}
