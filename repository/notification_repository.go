package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduvia/eduvia-api/models"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when marking a row that does not
// belong to the user or does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepositoryImpl implements NotificationRepository
type NotificationRepositoryImpl struct {
	*BaseRepository[models.Notification, models.NotificationFilter]
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{BaseRepository: NewBaseRepository[models.Notification, models.NotificationFilter](db)}
}

func (r *NotificationRepositoryImpl) applyFilter(db *gorm.DB, f models.NotificationFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Read != nil {
		db = db.Where("read = ?", *f.Read)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	return db
}

func (r *NotificationRepositoryImpl) ByFilter(ctx context.Context, filter models.NotificationFilter, orderBy string, limit, offset int) ([]*models.Notification, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Notification{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find notifications by filter: %w", err)
	}
	return rows, nil
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.Notification, error) {
	return r.ByFilter(ctx, models.NotificationFilter{UserID: &userID}, "created_at DESC", limit, 0)
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Notification{}).Where("user_id = ?", userID).Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// MarkRead flips a single row, scoped to the owning user so one user cannot
// acknowledge another user's notification.
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, userID, notificationID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		err = fmt.Errorf("failed to mark notification read: %w", res.Error)
		return err
	}
	if res.RowsAffected == 0 {
		err = ErrNotificationNotFound
		return err
	}
	return nil
}

func (r *NotificationRepositoryImpl) Count(ctx context.Context, filter models.NotificationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Notification{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
