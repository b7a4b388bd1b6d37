package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/eduvia/eduvia-api/matching"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Notifications created by the fan-out, partitioned by type
var notificationsDispatched = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Total notification rows created by the fan-out",
	},
	[]string{"type"},
)

// DispatchFlow fans a notification out to every user an audience criterion matches.
// An empty criterion is a campus-wide broadcast. Delivery is at-least-once: each
// recipient gets an independent row and a retried fan-out may duplicate rows.
type DispatchFlow interface {
	Dispatch(ctx context.Context, criterion matching.Criterion, title, description, notificationType string, link *string) (int, error)
	Broadcast(ctx context.Context, title, description, notificationType string, link *string) (int, error)
}

// DispatchFlowImpl implements the notification fan-out
type DispatchFlowImpl struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewDispatchFlow creates a new dispatch flow instance
func NewDispatchFlow(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) DispatchFlow {
	return &DispatchFlowImpl{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// Dispatch resolves the criterion to user IDs and inserts one notification per recipient
func (df *DispatchFlowImpl) Dispatch(ctx context.Context, criterion matching.Criterion, title, description, notificationType string, link *string) (int, error) {
	userIDs, err := df.resolveAudience(ctx, criterion)
	if err != nil {
		return 0, NewBusinessError("AUDIENCE_RESOLVE_FAILED", "Failed to resolve notification audience", err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	now := utils.UTCNow()
	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications, &models.Notification{
			UserID:      userID,
			Title:       title,
			Description: description,
			Type:        notificationType,
			Link:        link,
			Read:        false,
			CreatedAt:   now,
		})
	}

	if err := df.notificationRepo.SaveBatch(ctx, notifications); err != nil {
		return 0, NewBusinessError("NOTIFICATION_FANOUT_FAILED", "Failed to insert notifications", err)
	}
	notificationsDispatched.WithLabelValues(notificationType).Add(float64(len(notifications)))
	return len(notifications), nil
}

// Broadcast sends a notification to the whole campus
func (df *DispatchFlowImpl) Broadcast(ctx context.Context, title, description, notificationType string, link *string) (int, error) {
	return df.Dispatch(ctx, matching.Criterion{}, title, description, notificationType, link)
}

// resolveAudience returns the recipient IDs for a criterion. An empty criterion
// matches everyone; otherwise each present dimension narrows the set.
func (df *DispatchFlowImpl) resolveAudience(ctx context.Context, criterion matching.Criterion) ([]uint, error) {
	return df.userRepo.ListIDsByAudience(ctx, criterion)
}

// dispatchBestEffort runs a fan-out and logs instead of failing the publish.
// The publish itself already succeeded; a lost notification batch is acceptable.
func dispatchBestEffort(ctx context.Context, df DispatchFlow, criterion matching.Criterion, title, description, notificationType string, link *string) {
	count, err := df.Dispatch(ctx, criterion, title, description, notificationType, link)
	if err != nil {
		log.Printf("notification fan-out failed (%s %q): %v", notificationType, title, err)
		return
	}
	log.Printf("notification fan-out: %s %q delivered to %d users", notificationType, title, count)
}

// broadcastBestEffort is dispatchBestEffort for the campus-wide audience
func broadcastBestEffort(ctx context.Context, df DispatchFlow, title, description, notificationType string, link *string) {
	dispatchBestEffort(ctx, df, matching.Criterion{}, title, description, notificationType, link)
}

func notificationLink(path string) *string {
	return utils.ToPtr(path)
}

func noteNotificationTitle(note models.Note) string {
	return fmt.Sprintf("New note: %s", note.Title)
}
