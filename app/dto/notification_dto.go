package dto

// NotificationDTO represents one notification row for the caller
type NotificationDTO struct {
	ID          uint    `json:"id" example:"501"`
	Title       string  `json:"title" example:"New note: Unit 3 - Signals and Systems"`
	Description string  `json:"description" example:"Digital Signal Processing"`
	Type        string  `json:"type" example:"NEW_NOTE"`
	Link        *string `json:"link,omitempty" example:"/notes"`
	Read        bool    `json:"read" example:"false"`
	CreatedAt   string  `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// ListNotificationsResponse represents the caller's newest notifications
type ListNotificationsResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int               `json:"unread_count" example:"3"`
}

// MarkReadResponse reports how many notifications were marked read
type MarkReadResponse struct {
	Updated int  `json:"updated" example:"3"`
	Marked  bool `json:"marked" example:"true"`
}

// Common error codes for notification operations
const (
	ErrorNotificationNotFound = "NOTIFICATION_NOT_FOUND"
)
