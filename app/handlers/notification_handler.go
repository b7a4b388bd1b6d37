package handlers

import (
	"context"
	"log"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	businessflow "github.com/eduvia/eduvia-api/business_flow"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/gofiber/fiber/v3"
)

// NotificationHandlerInterface defines the contract for notification handlers
type NotificationHandlerInterface interface {
	List(c fiber.Ctx) error
	MarkAllRead(c fiber.Ctx) error
	MarkRead(c fiber.Ctx) error
}

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationFlow businessflow.NotificationFlow
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationFlow businessflow.NotificationFlow) *NotificationHandler {
	return &NotificationHandler{notificationFlow: notificationFlow}
}

func (h *NotificationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *NotificationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the caller's most recent notifications with the unread count
func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.notificationFlow.List(h.createRequestContext(c, "/api/v1/notifications"), userID)
	if err != nil {
		log.Println("List notifications failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load notifications", "NOTIFICATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Notifications retrieved", result)
}

// MarkAllRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	if err := h.notificationFlow.MarkAllRead(h.createRequestContext(c, "/api/v1/notifications/read"), userID); err != nil {
		log.Println("Mark all notifications read failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark notifications read", "NOTIFICATION_MARK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "All notifications marked read", dto.MarkReadResponse{Marked: true})
}

// MarkRead marks a single notification as read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	notificationID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid notification ID", "INVALID_REQUEST", nil)
	}

	if err := h.notificationFlow.MarkRead(h.createRequestContext(c, "/api/v1/notifications/:id/read"), userID, notificationID); err != nil {
		if businessflow.IsNotificationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", dto.ErrorNotificationNotFound, nil)
		}
		log.Println("Mark notification read failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark notification read", "NOTIFICATION_MARK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Notification marked read", dto.MarkReadResponse{Marked: true})
}

func (h *NotificationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *NotificationHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
