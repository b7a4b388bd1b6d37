package dto

// CreateLostFoundRequest represents the request payload for filing a lost-or-found report
type CreateLostFoundRequest struct {
	ItemName    string `json:"item_name" validate:"required,min=1,max=255" example:"Black Casio FX-991 calculator"`
	Description string `json:"description" validate:"required,min=1" example:"Left behind in LT-204 after the 9am DSP lecture."`
	Status      string `json:"status" validate:"required,oneof=lost found" example:"lost"`
	Contact     string `json:"contact" validate:"required,min=3,max=255" example:"jane.doe@university.edu"`
}

// UpdateLostFoundStatusRequest represents the request payload for resolving a report
type UpdateLostFoundStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=lost found claimed" example:"claimed"`
}

// LostFoundItemDTO represents a lost & found report returned by the API
type LostFoundItemDTO struct {
	ID          uint   `json:"id" example:"11"`
	ItemName    string `json:"item_name" example:"Black Casio FX-991 calculator"`
	Description string `json:"description" example:"Left behind in LT-204 after the 9am DSP lecture."`
	Status      string `json:"status" example:"lost"`
	Contact     string `json:"contact" example:"jane.doe@university.edu"`
	UserID      uint   `json:"user_id" example:"123"`
	CreatedAt   string `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// ListLostFoundResponse represents the lost & found board, newest first
type ListLostFoundResponse struct {
	Items []LostFoundItemDTO `json:"items"`
	Total int                `json:"total" example:"5"`
}

// Common error codes for lost & found operations
const (
	ErrorLostFoundNotFound     = "LOSTFOUND_ITEM_NOT_FOUND"
	ErrorLostFoundAccessDenied = "LOSTFOUND_ACCESS_DENIED"
)
