package businessflow

import (
	"context"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
)

// LostFoundFlow handles the campus lost & found board
type LostFoundFlow interface {
	List(ctx context.Context) (*dto.ListLostFoundResponse, error)
	Create(ctx context.Context, userID uint, request *dto.CreateLostFoundRequest, metadata *ClientMetadata) (*dto.LostFoundItemDTO, error)
	UpdateStatus(ctx context.Context, userID uint, isAdmin bool, itemID uint, request *dto.UpdateLostFoundStatusRequest) (*dto.LostFoundItemDTO, error)
	Delete(ctx context.Context, userID uint, isAdmin bool, itemID uint) error
}

// LostFoundFlowImpl implements the lost & found business flow
type LostFoundFlowImpl struct {
	lostFoundRepo repository.LostFoundRepository
	dispatch      DispatchFlow
}

// NewLostFoundFlow creates a new lost & found flow instance
func NewLostFoundFlow(lostFoundRepo repository.LostFoundRepository, dispatch DispatchFlow) LostFoundFlow {
	return &LostFoundFlowImpl{lostFoundRepo: lostFoundRepo, dispatch: dispatch}
}

// List returns the whole board, newest first
func (lf *LostFoundFlowImpl) List(ctx context.Context) (*dto.ListLostFoundResponse, error) {
	rows, err := lf.lostFoundRepo.ByFilter(ctx, models.LostFoundFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LOSTFOUND_LIST_FAILED", "Failed to load lost & found items", err)
	}

	items := make([]dto.LostFoundItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToLostFoundItemDTO(*row))
	}
	return &dto.ListLostFoundResponse{Items: items, Total: len(items)}, nil
}

// Create files a report and broadcasts a LOST_FOUND notification to everyone.
// The broadcast is awaited so the insert is not cut off by the response, but
// a failed batch never fails the report.
func (lf *LostFoundFlowImpl) Create(ctx context.Context, userID uint, request *dto.CreateLostFoundRequest, metadata *ClientMetadata) (*dto.LostFoundItemDTO, error) {
	item := &models.LostFoundItem{
		ItemName:    request.ItemName,
		Description: request.Description,
		Status:      request.Status,
		Contact:     request.Contact,
		UserID:      userID,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := lf.lostFoundRepo.Save(ctx, item); err != nil {
		return nil, NewBusinessError("LOSTFOUND_CREATE_FAILED", "Failed to create lost & found item", err)
	}

	title := "Lost Item Reported: " + item.ItemName
	if item.Status == models.LostFoundStatusFound {
		title = "Found Item Reported: " + item.ItemName
	}
	broadcastBestEffort(ctx, lf.dispatch, title,
		utils.Truncate(item.Description, utils.NotificationDescriptionLimit),
		models.NotificationTypeLostFound, notificationLink("/lostfound"))

	result := ToLostFoundItemDTO(*item)
	return &result, nil
}

// UpdateStatus resolves a report. Only the reporter or an admin may do it.
func (lf *LostFoundFlowImpl) UpdateStatus(ctx context.Context, userID uint, isAdmin bool, itemID uint, request *dto.UpdateLostFoundStatusRequest) (*dto.LostFoundItemDTO, error) {
	item, err := lf.lostFoundRepo.ByID(ctx, itemID)
	if err != nil {
		return nil, NewBusinessError("LOSTFOUND_UPDATE_FAILED", "Failed to load lost & found item", err)
	}
	if item == nil {
		return nil, NewBusinessError("LOSTFOUND_ITEM_NOT_FOUND", "Lost & found item not found", ErrLostFoundNotFound)
	}
	if item.UserID != userID && !isAdmin {
		return nil, NewBusinessError("LOSTFOUND_ACCESS_DENIED", "Lost & found item belongs to another user", ErrLostFoundAccessDenied)
	}

	updated, err := lf.lostFoundRepo.UpdateStatus(ctx, itemID, request.Status)
	if err != nil {
		return nil, NewBusinessError("LOSTFOUND_UPDATE_FAILED", "Failed to update lost & found item", err)
	}

	result := ToLostFoundItemDTO(*updated)
	return &result, nil
}

// Delete removes a report. Only the reporter or an admin may do it.
func (lf *LostFoundFlowImpl) Delete(ctx context.Context, userID uint, isAdmin bool, itemID uint) error {
	item, err := lf.lostFoundRepo.ByID(ctx, itemID)
	if err != nil {
		return NewBusinessError("LOSTFOUND_DELETE_FAILED", "Failed to load lost & found item", err)
	}
	if item == nil {
		return NewBusinessError("LOSTFOUND_ITEM_NOT_FOUND", "Lost & found item not found", ErrLostFoundNotFound)
	}
	if item.UserID != userID && !isAdmin {
		return NewBusinessError("LOSTFOUND_ACCESS_DENIED", "Lost & found item belongs to another user", ErrLostFoundAccessDenied)
	}
	if err := lf.lostFoundRepo.Delete(ctx, itemID); err != nil {
		return NewBusinessError("LOSTFOUND_DELETE_FAILED", "Failed to delete lost & found item", err)
	}
	return nil
}
