package repository

import (
	"context"
	"fmt"

	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"gorm.io/gorm"
)

// ChatRepositoryImpl implements ChatRepository
type ChatRepositoryImpl struct {
	*BaseRepository[models.ChatSession, models.ChatSessionFilter]
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{BaseRepository: NewBaseRepository[models.ChatSession, models.ChatSessionFilter](db)}
}

func (r *ChatRepositoryImpl) applyFilter(db *gorm.DB, f models.ChatSessionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	return db
}

func (r *ChatRepositoryImpl) ByFilter(ctx context.Context, filter models.ChatSessionFilter, orderBy string, limit, offset int) ([]*models.ChatSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ChatSession{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ChatSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find chat sessions by filter: %w", err)
	}
	return rows, nil
}

func (r *ChatRepositoryImpl) ListSessionsByUser(ctx context.Context, userID uint) ([]*models.ChatSession, error) {
	return r.ByFilter(ctx, models.ChatSessionFilter{UserID: &userID}, "updated_at DESC", 0, 0)
}

func (r *ChatRepositoryImpl) ListMessages(ctx context.Context, sessionID uint) ([]*models.ChatMessage, error) {
	db := r.getDB(ctx)

	var rows []*models.ChatMessage
	err := db.Model(&models.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return rows, nil
}

func (r *ChatRepositoryImpl) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
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

	err = db.Create(msg).Error
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (r *ChatRepositoryImpl) TouchSession(ctx context.Context, sessionID uint) error {
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

	err = db.Model(&models.ChatSession{}).Where("id = ?", sessionID).Update("updated_at", utils.UTCNow()).Error
	if err != nil {
		return fmt.Errorf("failed to touch chat session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its messages together.
func (r *ChatRepositoryImpl) DeleteSession(ctx context.Context, sessionID uint) error {
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

	if err = db.Where("session_id = ?", sessionID).Delete(&models.ChatMessage{}).Error; err != nil {
		err = fmt.Errorf("failed to delete chat messages: %w", err)
		return err
	}
	if err = db.Delete(&models.ChatSession{}, sessionID).Error; err != nil {
		err = fmt.Errorf("failed to delete chat session: %w", err)
		return err
	}
	return nil
}

func (r *ChatRepositoryImpl) Count(ctx context.Context, filter models.ChatSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ChatSession{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
