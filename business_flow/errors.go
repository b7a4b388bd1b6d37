// Package businessflow contains the core business logic and use cases of the campus portal
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileIncomplete    = errors.New("academic profile is incomplete")
	ErrInvalidProviderToken = errors.New("provider token is invalid")
	ErrUnsupportedProvider  = errors.New("unsupported identity provider")

	// Note-related errors
	ErrNoteNotFound   = errors.New("note not found")
	ErrNoteNotVisible = errors.New("note is not visible to this profile")

	// Timetable-related errors
	ErrTimetableEntryNotFound = errors.New("timetable entry not found")
	ErrInvalidTimeRange       = errors.New("end time must be after start time")

	// Event-related errors
	ErrEventNotFound        = errors.New("event not found")
	ErrEventEndsBeforeStart = errors.New("event must end after it starts")

	// Lost & found errors
	ErrLostFoundNotFound     = errors.New("lost & found item not found")
	ErrLostFoundAccessDenied = errors.New("lost & found item belongs to another user")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Chat errors
	ErrChatSessionNotFound  = errors.New("chat session not found")
	ErrAssistantUnavailable = errors.New("assistant is unavailable")

	// Admin errors
	ErrAccessDenied           = errors.New("access denied")
	ErrCannotChangeSuperAdmin = errors.New("super admin role cannot be changed")
	ErrCannotDemoteSelf       = errors.New("cannot change your own role")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsProfileIncomplete(err error) bool {
	return errors.Is(err, ErrProfileIncomplete)
}

func IsInvalidProviderToken(err error) bool {
	return errors.Is(err, ErrInvalidProviderToken)
}

func IsUnsupportedProvider(err error) bool {
	return errors.Is(err, ErrUnsupportedProvider)
}

func IsNoteNotFound(err error) bool {
	return errors.Is(err, ErrNoteNotFound)
}

func IsNoteNotVisible(err error) bool {
	return errors.Is(err, ErrNoteNotVisible)
}

func IsTimetableEntryNotFound(err error) bool {
	return errors.Is(err, ErrTimetableEntryNotFound)
}

func IsInvalidTimeRange(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange)
}

func IsEventEndsBeforeStart(err error) bool {
	return errors.Is(err, ErrEventEndsBeforeStart)
}

func IsEventNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

func IsLostFoundNotFound(err error) bool {
	return errors.Is(err, ErrLostFoundNotFound)
}

func IsLostFoundAccessDenied(err error) bool {
	return errors.Is(err, ErrLostFoundAccessDenied)
}

func IsNotificationNotFound(err error) bool {
	return errors.Is(err, ErrNotificationNotFound)
}

func IsChatSessionNotFound(err error) bool {
	return errors.Is(err, ErrChatSessionNotFound)
}

func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

func IsCannotChangeSuperAdmin(err error) bool {
	return errors.Is(err, ErrCannotChangeSuperAdmin)
}

func IsCannotDemoteSelf(err error) bool {
	return errors.Is(err, ErrCannotDemoteSelf)
}

func IsAssistantUnavailable(err error) bool {
	return errors.Is(err, ErrAssistantUnavailable)
}
