// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/matching"
	"github.com/eduvia/eduvia-api/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserDTO converts a user model to UserDTO for API responses
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:               user.ID,
		UUID:             user.UUID.String(),
		Email:            user.Email,
		Name:             user.Name,
		Role:             user.Role,
		Picture:          user.Picture,
		College:          user.College,
		Mobile:           user.Mobile,
		Branch:           user.Branch,
		ProgramType:      user.ProgramType,
		Semester:         user.Semester,
		YearOfStudy:      user.YearOfStudy,
		ProfileCompleted: user.ProfileCompleted,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}
}

func ToNoteDTO(note models.Note) dto.NoteDTO {
	semesters := make([]int, 0, len(note.Semesters))
	for _, s := range note.Semesters {
		semesters = append(semesters, int(s))
	}
	return dto.NoteDTO{
		ID:          note.ID,
		Title:       note.Title,
		Course:      note.Course,
		FileID:      note.FileID,
		DriveURL:    note.DriveURL,
		Branches:    append([]string{}, note.Branches...),
		Semesters:   semesters,
		YearOfStudy: note.YearOfStudy,
		CreatedAt:   note.CreatedAt.Format(time.RFC3339),
	}
}

func ToTimetableEntryDTO(entry models.TimetableEntry) dto.TimetableEntryDTO {
	return dto.TimetableEntryDTO{
		ID:        entry.ID,
		Course:    entry.Course,
		Day:       entry.Day,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Room:      entry.Room,
		Faculty:   entry.Faculty,
	}
}

func ToEventDTO(event models.Event) dto.EventDTO {
	return dto.EventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartsAt:    event.StartsAt.Format(time.RFC3339),
		EndsAt:      event.EndsAt.Format(time.RFC3339),
		CreatedAt:   event.CreatedAt.Format(time.RFC3339),
	}
}

func ToLostFoundItemDTO(item models.LostFoundItem) dto.LostFoundItemDTO {
	return dto.LostFoundItemDTO{
		ID:          item.ID,
		ItemName:    item.ItemName,
		Description: item.Description,
		Status:      item.Status,
		Contact:     item.Contact,
		UserID:      item.UserID,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
}

func ToNotificationDTO(n models.Notification) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Type:        n.Type,
		Link:        n.Link,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}

func ToChatSessionDTO(session models.ChatSession) dto.ChatSessionDTO {
	return dto.ChatSessionDTO{
		ID:        session.ID,
		Title:     session.Title,
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
		UpdatedAt: session.UpdatedAt.Format(time.RFC3339),
	}
}

func ToChatMessageDTO(message models.ChatMessage) dto.ChatMessageDTO {
	return dto.ChatMessageDTO{
		ID:        message.ID,
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}
}

// ToSessionDTO builds the token-pair payload returned after sign-in and refresh
func ToSessionDTO(accessToken, refreshToken string, accessTTL time.Duration) dto.SessionDTO {
	return dto.SessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTTL.Seconds()),
	}
}

// profileOf extracts the matching profile of a user
func profileOf(user models.User) matching.Profile {
	p := matching.Profile{
		Semester:    user.Semester,
		YearOfStudy: user.YearOfStudy,
	}
	if user.Branch != nil {
		p.Branch = *user.Branch
	}
	return p
}

// noteTargeting extracts the audience targeting of a note
func noteTargeting(note models.Note) matching.Targeting {
	t := matching.Targeting{
		Branches:    append([]string{}, note.Branches...),
		YearOfStudy: nil,
	}
	for _, s := range note.Semesters {
		t.Semesters = append(t.Semesters, int(s))
	}
	if note.YearOfStudy != nil {
		t.YearOfStudy = *note.YearOfStudy
	}
	return t
}

// noteCriterion converts a note's targeting into an audience criterion for fan-out
func noteCriterion(note models.Note) matching.Criterion {
	c := matching.Criterion{
		Branches: append([]string{}, note.Branches...),
	}
	for _, s := range note.Semesters {
		c.Semesters = append(c.Semesters, int(s))
	}
	c.Year = note.YearOfStudy
	return c
}
