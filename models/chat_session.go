package models

import "time"

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatSession groups the messages of one assistant conversation. The title
// is derived from the first user message.
type ChatSession struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint   `gorm:"not null;index:idx_chat_sessions_user_updated" json:"user_id"`
	Title  string `gorm:"size:255;not null" json:"title"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_chat_sessions_user_updated" json:"updated_at"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

// ChatMessage is a single turn within a session.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint   `gorm:"not null;index:idx_chat_messages_session" json:"session_id"`
	Role      string `gorm:"size:10;not null" json:"role"`
	Content   string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

// ChatSessionFilter represents filter criteria for chat session queries.
type ChatSessionFilter struct {
	ID     *uint
	UserID *uint
}
