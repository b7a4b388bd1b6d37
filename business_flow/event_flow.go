package businessflow

import (
	"context"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
)

// EventFlow handles campus events
type EventFlow interface {
	List(ctx context.Context, upcomingOnly bool) (*dto.ListEventsResponse, error)
	Create(ctx context.Context, userID uint, request *dto.CreateEventRequest, metadata *ClientMetadata) (*dto.EventDTO, error)
	Update(ctx context.Context, eventID uint, request *dto.UpdateEventRequest, metadata *ClientMetadata) (*dto.EventDTO, error)
	Delete(ctx context.Context, eventID uint) error
}

// EventFlowImpl implements the event business flow
type EventFlowImpl struct {
	eventRepo repository.EventRepository
	dispatch  DispatchFlow
}

// NewEventFlow creates a new event flow instance
func NewEventFlow(eventRepo repository.EventRepository, dispatch DispatchFlow) EventFlow {
	return &EventFlowImpl{eventRepo: eventRepo, dispatch: dispatch}
}

// List returns events soonest first, with the past ones skipped when asked
func (ef *EventFlowImpl) List(ctx context.Context, upcomingOnly bool) (*dto.ListEventsResponse, error) {
	var rows []*models.Event
	var err error
	if upcomingOnly {
		rows, err = ef.eventRepo.ListUpcoming(ctx)
	} else {
		rows, err = ef.eventRepo.ByFilter(ctx, models.EventFilter{}, "starts_at ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("EVENT_LIST_FAILED", "Failed to load events", err)
	}

	events := make([]dto.EventDTO, 0, len(rows))
	for _, row := range rows {
		events = append(events, ToEventDTO(*row))
	}
	return &dto.ListEventsResponse{Events: events, Total: len(events)}, nil
}

// Create publishes an event and broadcasts an EVENT notification to everyone
func (ef *EventFlowImpl) Create(ctx context.Context, userID uint, request *dto.CreateEventRequest, metadata *ClientMetadata) (*dto.EventDTO, error) {
	if !request.EndsAt.After(request.StartsAt) {
		return nil, NewBusinessError("EVENT_ENDS_BEFORE_START", "Event must end after it starts", ErrEventEndsBeforeStart)
	}

	event := &models.Event{
		Title:       request.Title,
		Description: request.Description,
		StartsAt:    request.StartsAt.UTC(),
		EndsAt:      request.EndsAt.UTC(),
		CreatedBy:   userID,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := ef.eventRepo.Save(ctx, event); err != nil {
		return nil, NewBusinessError("EVENT_CREATE_FAILED", "Failed to create event", err)
	}

	broadcastBestEffort(ctx, ef.dispatch,
		"New event: "+event.Title,
		utils.Truncate(event.Description, utils.NotificationDescriptionLimit),
		models.NotificationTypeEvent, notificationLink("/events"))

	result := ToEventDTO(*event)
	return &result, nil
}

// Update edits an event without re-notifying the campus
func (ef *EventFlowImpl) Update(ctx context.Context, eventID uint, request *dto.UpdateEventRequest, metadata *ClientMetadata) (*dto.EventDTO, error) {
	event, err := ef.eventRepo.ByID(ctx, eventID)
	if err != nil {
		return nil, NewBusinessError("EVENT_UPDATE_FAILED", "Failed to load event", err)
	}
	if event == nil {
		return nil, NewBusinessError("EVENT_NOT_FOUND", "Event not found", ErrEventNotFound)
	}

	if request.Title != nil {
		event.Title = *request.Title
	}
	if request.Description != nil {
		event.Description = *request.Description
	}
	if request.StartsAt != nil {
		event.StartsAt = request.StartsAt.UTC()
	}
	if request.EndsAt != nil {
		event.EndsAt = request.EndsAt.UTC()
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, NewBusinessError("EVENT_ENDS_BEFORE_START", "Event must end after it starts", ErrEventEndsBeforeStart)
	}
	event.UpdatedAt = utils.UTCNow()

	if err := ef.eventRepo.Update(ctx, event); err != nil {
		return nil, NewBusinessError("EVENT_UPDATE_FAILED", "Failed to update event", err)
	}

	result := ToEventDTO(*event)
	return &result, nil
}

// Delete removes an event
func (ef *EventFlowImpl) Delete(ctx context.Context, eventID uint) error {
	event, err := ef.eventRepo.ByID(ctx, eventID)
	if err != nil {
		return NewBusinessError("EVENT_DELETE_FAILED", "Failed to load event", err)
	}
	if event == nil {
		return NewBusinessError("EVENT_NOT_FOUND", "Event not found", ErrEventNotFound)
	}
	if err := ef.eventRepo.Delete(ctx, eventID); err != nil {
		return NewBusinessError("EVENT_DELETE_FAILED", "Failed to delete event", err)
	}
	return nil
}
