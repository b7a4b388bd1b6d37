package dto

// PromoteUserRequest represents the request payload for changing a user's role
type PromoteUserRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin" example:"admin"`
}

// AdminStatsResponse represents aggregate portal statistics for the admin console
type AdminStatsResponse struct {
	TotalUsers         int64            `json:"total_users" example:"412"`
	TotalNotes         int64            `json:"total_notes" example:"57"`
	TotalEvents        int64            `json:"total_events" example:"12"`
	TotalLostFound     int64            `json:"total_lostfound" example:"23"`
	TotalNotifications int64            `json:"total_notifications" example:"8190"`
	UsersByBranch      map[string]int64 `json:"users_by_branch"`
}

// ListUsersResponse represents a page of registered users for the admin console
type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
	Total int64     `json:"total" example:"412"`
	Page  int       `json:"page" example:"1"`
}

// Common error codes for admin operations
const (
	ErrorAccessDenied      = "ACCESS_DENIED"
	ErrorCannotDemoteSelf  = "CANNOT_DEMOTE_SELF"
	ErrorCannotChangeSuper = "CANNOT_CHANGE_SUPER_ADMIN"
)
