package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Promotion order is student -> admin -> super_admin; the super
// admin is identified by the configured email, never by a literal in code.
const (
	RoleStudent    = "student"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Program types offered by the campus.
const (
	ProgramBTech = "B.Tech"
	ProgramMTech = "M.Tech"
)

// User represents a portal account created on first OAuth sign-in. Profile
// fields stay NULL until the student completes the profile form, which is
// why they are pointers: an unset field must be distinguishable from a zero
// value when matching note targeting.
type User struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	Email            string    `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Picture          string    `gorm:"size:1024" json:"picture,omitempty"`
	Provider         string    `gorm:"size:20;not null" json:"provider"`
	Subject          string    `gorm:"size:255;not null" json:"-"`
	Role             string    `gorm:"size:20;not null;default:'student';index:idx_users_role" json:"role"`
	College          *string   `gorm:"size:255" json:"college,omitempty"`
	Mobile           *string   `gorm:"size:20" json:"mobile,omitempty"`
	Branch           *string   `gorm:"size:255;index:idx_users_branch" json:"branch,omitempty"`
	Semester         *int      `gorm:"index:idx_users_semester" json:"semester,omitempty"`
	YearOfStudy      *int      `json:"year_of_study,omitempty"`
	ProgramType      *string   `gorm:"size:20" json:"program_type,omitempty"`
	ProfileCompleted bool      `gorm:"not null;default:false" json:"profile_completed"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user may manage notes, events, and timetables.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// UserFilter represents filter criteria for user queries. BranchIn,
// SemesterIn, and YearOfStudy together express an audience criterion: each
// present field is an OR-set, present fields combine with AND, and nil
// fields impose no constraint.
type UserFilter struct {
	ID               *uint
	UUID             *string
	Email            *string
	Role             *string
	BranchIn         []string
	SemesterIn       []int
	YearOfStudy      *int
	ProfileCompleted *bool
	CreatedAfter     *time.Time
	CreatedBefore    *time.Time
}
