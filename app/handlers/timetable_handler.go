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

// TimetableHandlerInterface defines the contract for timetable handlers
type TimetableHandlerInterface interface {
	List(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// TimetableHandler handles timetable-related HTTP requests
type TimetableHandler struct {
	timetableFlow businessflow.TimetableFlow
	validator     *validator.Validate
}

// NewTimetableHandler creates a new timetable handler
func NewTimetableHandler(timetableFlow businessflow.TimetableFlow) *TimetableHandler {
	return &TimetableHandler{
		timetableFlow: timetableFlow,
		validator:     validator.New(),
	}
}

func (h *TimetableHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TimetableHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns the full weekly timetable
func (h *TimetableHandler) List(c fiber.Ctx) error {
	result, err := h.timetableFlow.List(h.createRequestContext(c, "/api/v1/timetable"), c.Query("course"))
	if err != nil {
		log.Println("List timetable failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load timetable", "TIMETABLE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Timetable retrieved", result)
}

// Create adds a timetable slot
func (h *TimetableHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateTimetableEntryRequest
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

	result, err := h.timetableFlow.Create(h.createRequestContext(c, "/api/v1/timetable"), userID, &req, metadata)
	if err != nil {
		if businessflow.IsInvalidTimeRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "End time must be after start time", dto.ErrorInvalidTimeRange, nil)
		}
		log.Println("Create timetable entry failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create timetable entry", "TIMETABLE_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Timetable entry created", result)
}

// Update edits a timetable slot
func (h *TimetableHandler) Update(c fiber.Ctx) error {
	entryID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateTimetableEntryRequest
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

	result, err := h.timetableFlow.Update(h.createRequestContext(c, "/api/v1/timetable/:id"), entryID, &req, metadata)
	if err != nil {
		if businessflow.IsTimetableEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Timetable entry not found", dto.ErrorTimetableEntryNotFound, nil)
		}
		if businessflow.IsInvalidTimeRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "End time must be after start time", dto.ErrorInvalidTimeRange, nil)
		}
		log.Println("Update timetable entry failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update timetable entry", "TIMETABLE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Timetable entry updated", result)
}

// Delete removes a timetable slot
func (h *TimetableHandler) Delete(c fiber.Ctx) error {
	entryID, err := pathID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", "INVALID_REQUEST", nil)
	}

	if err := h.timetableFlow.Delete(h.createRequestContext(c, "/api/v1/timetable/:id"), entryID); err != nil {
		if businessflow.IsTimetableEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Timetable entry not found", dto.ErrorTimetableEntryNotFound, nil)
		}
		log.Println("Delete timetable entry failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete timetable entry", "TIMETABLE_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Timetable entry deleted", nil)
}

func (h *TimetableHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *TimetableHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
