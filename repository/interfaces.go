// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/eduvia/eduvia-api/matching"
	"github.com/eduvia/eduvia-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter F) (int64, error)
}

// UserRepository defines operations for portal users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	// ListIDsByAudience resolves an audience criterion to the distinct set
	// of user IDs. An empty criterion selects every user (broadcast).
	ListIDsByAudience(ctx context.Context, criterion matching.Criterion) ([]uint, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, userID uint, role string) error
	UpdateProfile(ctx context.Context, userID uint, update models.User) (*models.User, error)
	CountByBranch(ctx context.Context) (map[string]int64, error)
}

// NoteRepository defines operations for study notes
type NoteRepository interface {
	Repository[models.Note, models.NoteFilter]
	ListNewestFirst(ctx context.Context) ([]*models.Note, error)
}

// TimetableRepository defines operations for timetable entries
type TimetableRepository interface {
	Repository[models.TimetableEntry, models.TimetableFilter]
	Update(ctx context.Context, entry *models.TimetableEntry) error
}

// EventRepository defines operations for campus events
type EventRepository interface {
	Repository[models.Event, models.EventFilter]
	ListUpcoming(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
}

// LostFoundRepository defines operations for lost & found items
type LostFoundRepository interface {
	Repository[models.LostFoundItem, models.LostFoundFilter]
	UpdateStatus(ctx context.Context, itemID uint, status string) (*models.LostFoundItem, error)
}

// NotificationRepository defines operations for notification rows
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) error
	MarkRead(ctx context.Context, userID, notificationID uint) error
}

// ChatRepository defines operations for assistant chat sessions and messages
type ChatRepository interface {
	Repository[models.ChatSession, models.ChatSessionFilter]
	ListSessionsByUser(ctx context.Context, userID uint) ([]*models.ChatSession, error)
	ListMessages(ctx context.Context, sessionID uint) ([]*models.ChatMessage, error)
	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	TouchSession(ctx context.Context, sessionID uint) error
	DeleteSession(ctx context.Context, sessionID uint) error
}
