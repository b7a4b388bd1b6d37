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

// EventHandlerInterface defines the contract for event handlers
type EventHandlerInterface interface {
	List(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventFlow businessflow.EventFlow
	validator *validator.Validate
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventFlow businessflow.EventFlow) *EventHandler {
	return &EventHandler{
		eventFlow: eventFlow,
		validator: validator.New(),
	}
}

func (h *EventHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EventHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns events, all of them or only the upcoming ones
func (h *EventHandler) List(c fiber.Ctx) error {
	upcomingOnly := c.Query("filter") == "upcoming"
	result, err := h.eventFlow.List(h.createRequestContext(c, "/api/v1/events"), upcomingOnly)
	if err != nil {
		log.Println("List events failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load events", "EVENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Events retrieved", result)
}

// Create publishes an event
func (h *EventHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateEventRequest
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

	result, err := h.eventFlow.Create(h.createRequestContext(c, "/api/v1/events"), userID, &req, metadata)
	if err != nil {
		if businessflow.IsEventEndsBeforeStart(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Event must end after it starts", "EVENT_ENDS_BEFORE_START", nil)
		}
		log.Println("Create event failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create event", "EVENT_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Event published", result)
}

// Update edits an event
func (h *EventHandler) Update(c fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateEventRequest
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

	result, err := h.eventFlow.Update(h.createRequestContext(c, "/api/v1/events/:id"), eventID, &req, metadata)
	if err != nil {
		if businessflow.IsEventNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Event not found", dto.ErrorEventNotFound, nil)
		}
		if businessflow.IsEventEndsBeforeStart(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Event must end after it starts", "EVENT_ENDS_BEFORE_START", nil)
		}
		log.Println("Update event failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update event", "EVENT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Event updated", result)
}

// Delete removes an event
func (h *EventHandler) Delete(c fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", "INVALID_REQUEST", nil)
	}

	if err := h.eventFlow.Delete(h.createRequestContext(c, "/api/v1/events/:id"), eventID); err != nil {
		if businessflow.IsEventNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Event not found", dto.ErrorEventNotFound, nil)
		}
		log.Println("Delete event failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete event", "EVENT_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Event deleted", nil)
}

func (h *EventHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *EventHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
