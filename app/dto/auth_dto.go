// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SignInRequest represents the request payload for OAuth sign-in
type SignInRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google github" example:"google"`
	Token    string `json:"token" validate:"required,min=10" example:"eyJhbGciOiJSUzI1NiIsImtpZCI6..."`
}

// SessionDTO represents an issued token pair
type SessionDTO struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"86400"`
}

// UserDTO represents user information returned by the API
type UserDTO struct {
	ID          uint    `json:"id" example:"123"`
	UUID        string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email       string  `json:"email" example:"student@university.edu"`
	Name        string  `json:"name" example:"Jane Doe"`
	Role        string  `json:"role" example:"student"`
	Picture     string  `json:"picture,omitempty" example:"https://lh3.googleusercontent.com/a/photo"`
	College     *string `json:"college,omitempty" example:"Institute of Engineering"`
	Mobile      *string `json:"mobile,omitempty" example:"+919876543210"`
	Branch      *string `json:"branch,omitempty" example:"Computer Science"`
	ProgramType *string `json:"program_type,omitempty" example:"B.Tech"`
	Semester    *int    `json:"semester,omitempty" example:"3"`
	YearOfStudy *int    `json:"year_of_study,omitempty" example:"2"`

	ProfileCompleted bool   `json:"profile_completed" example:"true"`
	CreatedAt        string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SignInResponse represents the successful sign-in response
type SignInResponse struct {
	User      UserDTO    `json:"user"`
	Session   SessionDTO `json:"session"`
	IsNewUser bool       `json:"is_new_user" example:"false"`
}

// RefreshRequest represents the request payload for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,min=10"`
}

// LogoutRequest represents the request payload for logout
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty,min=10"`
}

// Common error codes for auth operations
const (
	ErrorInvalidProviderToken = "INVALID_PROVIDER_TOKEN"
	ErrorUnsupportedProvider  = "UNSUPPORTED_PROVIDER"
	ErrorInvalidToken         = "INVALID_TOKEN"
	ErrorTokenExpired         = "TOKEN_EXPIRED"
	ErrorTokenRevoked         = "TOKEN_REVOKED"
	ErrorUserNotFound         = "USER_NOT_FOUND"
)
