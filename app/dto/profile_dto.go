package dto

// UpdateProfileRequest represents the request payload for updating academic profile fields
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"Jane Doe"`
	College     *string `json:"college,omitempty" validate:"omitempty,max=255" example:"Institute of Engineering"`
	Mobile      *string `json:"mobile,omitempty" validate:"omitempty,min=7,max=20" example:"+919876543210"`
	Branch      *string `json:"branch,omitempty" validate:"omitempty,max=255" example:"Computer Science"`
	ProgramType *string `json:"program_type,omitempty" validate:"omitempty,oneof=B.Tech M.Tech" example:"B.Tech"`
	Semester    *int    `json:"semester,omitempty" validate:"omitempty,min=1,max=8" example:"3"`
	YearOfStudy *int    `json:"year_of_study,omitempty" validate:"omitempty,min=1,max=4" example:"2"`
}

// ProfileResponse represents the profile returned after read or update
type ProfileResponse struct {
	User            UserDTO `json:"user"`
	ProfileComplete bool    `json:"profile_complete" example:"true"`
}

// Common error codes for profile operations
const (
	ErrorProfileIncomplete = "PROFILE_INCOMPLETE"
)
