package handlers

import (
	"context"
	"log"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	businessflow "github.com/eduvia/eduvia-api/business_flow"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ChatHandlerInterface defines the contract for assistant chat handlers
type ChatHandlerInterface interface {
	Send(c fiber.Ctx) error
	ListSessions(c fiber.Ctx) error
	ListMessages(c fiber.Ctx) error
	DeleteSession(c fiber.Ctx) error
}

// ChatHandler handles assistant chat HTTP requests
type ChatHandler struct {
	chatFlow  businessflow.ChatFlow
	validator *validator.Validate
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatFlow businessflow.ChatFlow) *ChatHandler {
	return &ChatHandler{
		chatFlow:  chatFlow,
		validator: validator.New(),
	}
}

func (h *ChatHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ChatHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Send forwards a message to the assistant and stores both turns
func (h *ChatHandler) Send(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.SendChatMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// model calls can be slow, so this endpoint gets a longer deadline
	result, err := h.chatFlow.Send(h.createRequestContextWithTimeout(c, "/api/v1/chat/messages", 90*time.Second), userID, &req, metadata)
	if err != nil {
		if businessflow.IsChatSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Chat session not found", dto.ErrorChatSessionNotFound, nil)
		}
		if businessflow.IsAssistantUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Assistant is unavailable, try again later", dto.ErrorAssistantUnavailable, nil)
		}
		log.Println("Send chat message failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send message", "CHAT_SEND_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Message sent", result)
}

// ListSessions returns the caller's chat sessions, most recent first
func (h *ChatHandler) ListSessions(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.chatFlow.ListSessions(h.createRequestContext(c, "/api/v1/chat/sessions"), userID)
	if err != nil {
		log.Println("List chat sessions failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load chat sessions", "CHAT_SESSIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Chat sessions retrieved", result)
}

// ListMessages returns the transcript of one session
func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session ID", "INVALID_REQUEST", nil)
	}

	result, err := h.chatFlow.ListMessages(h.createRequestContext(c, "/api/v1/chat/sessions/:id/messages"), userID, sessionID)
	if err != nil {
		if businessflow.IsChatSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Chat session not found", dto.ErrorChatSessionNotFound, nil)
		}
		log.Println("List chat messages failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load chat messages", "CHAT_MESSAGES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Chat messages retrieved", result)
}

// DeleteSession removes a session and its transcript
func (h *ChatHandler) DeleteSession(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session ID", "INVALID_REQUEST", nil)
	}

	if err := h.chatFlow.DeleteSession(h.createRequestContext(c, "/api/v1/chat/sessions/:id"), userID, sessionID); err != nil {
		if businessflow.IsChatSessionNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Chat session not found", dto.ErrorChatSessionNotFound, nil)
		}
		log.Println("Delete chat session failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete chat session", "CHAT_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Chat session deleted", nil)
}

func (h *ChatHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ChatHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
