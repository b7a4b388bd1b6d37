package dto

// SendChatMessageRequest represents the request payload for talking to the assistant
type SendChatMessageRequest struct {
	SessionID *uint  `json:"session_id,omitempty" example:"9"`
	Message   string `json:"message" validate:"required,min=1,max=4000" example:"When does the DSP lecture meet?"`
}

// ChatMessageDTO represents one turn of a conversation
type ChatMessageDTO struct {
	ID        uint   `json:"id" example:"88"`
	Role      string `json:"role" example:"assistant"`
	Content   string `json:"content" example:"DSP meets Monday 09:00 in LT-204."`
	CreatedAt string `json:"created_at" example:"2026-01-15T10:30:05Z"`
}

// ChatSessionDTO represents a conversation in the session list
type ChatSessionDTO struct {
	ID        uint   `json:"id" example:"9"`
	Title     string `json:"title" example:"When does the DSP lecture meet?"`
	CreatedAt string `json:"created_at" example:"2026-01-15T10:30:00Z"`
	UpdatedAt string `json:"updated_at" example:"2026-01-15T10:31:00Z"`
}

// SendChatMessageResponse represents the assistant's reply
type SendChatMessageResponse struct {
	SessionID uint           `json:"session_id" example:"9"`
	Message   ChatMessageDTO `json:"message"`
}

// ListChatSessionsResponse represents the caller's conversations, most recent first
type ListChatSessionsResponse struct {
	Sessions []ChatSessionDTO `json:"sessions"`
}

// ListChatMessagesResponse represents the full history of one conversation
type ListChatMessagesResponse struct {
	SessionID uint             `json:"session_id" example:"9"`
	Messages  []ChatMessageDTO `json:"messages"`
}

// Common error codes for chat operations
const (
	ErrorChatSessionNotFound  = "CHAT_SESSION_NOT_FOUND"
	ErrorAssistantUnavailable = "ASSISTANT_UNAVAILABLE"
)
