package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEvent(t *testing.T, flow EventFlow, title string, startsIn, duration time.Duration) *dto.EventDTO {
	t.Helper()
	start := utils.UTCNow().Add(startsIn)
	event, err := flow.Create(context.Background(), 1, &dto.CreateEventRequest{
		Title:       title,
		Description: "Main auditorium",
		StartsAt:    start,
		EndsAt:      start.Add(duration),
	}, nil)
	require.NoError(t, err)
	return event
}

func TestEventCreateRejectsInvertedRange(t *testing.T) {
	flow := NewEventFlow(newFakeEventRepo(), &fakeDispatch{})
	start := utils.UTCNow().Add(24 * time.Hour)

	_, err := flow.Create(context.Background(), 1, &dto.CreateEventRequest{
		Title:       "TechFest",
		Description: "Main auditorium",
		StartsAt:    start,
		EndsAt:      start.Add(-time.Hour),
	}, nil)

	assert.True(t, IsEventEndsBeforeStart(err))
}

func TestEventCreateBroadcasts(t *testing.T) {
	users := newFakeUserRepo()
	notifications := newFakeNotificationRepo()
	flow := NewEventFlow(newFakeEventRepo(), NewDispatchFlow(users, notifications))
	seedStudent(users, "CS", 1, 1)
	seedStudent(users, "EC", 3, 2)

	createEvent(t, flow, "TechFest 2026", 24*time.Hour, 8*time.Hour)

	require.Len(t, notifications.rows, 2)
	assert.Equal(t, models.NotificationTypeEvent, notifications.rows[0].Type)
	assert.Equal(t, "New event: TechFest 2026", notifications.rows[0].Title)
}

func TestEventListUpcomingSkipsPast(t *testing.T) {
	flow := NewEventFlow(newFakeEventRepo(), &fakeDispatch{})

	createEvent(t, flow, "past", -48*time.Hour, 2*time.Hour)
	createEvent(t, flow, "soon", 2*time.Hour, 2*time.Hour)
	createEvent(t, flow, "later", 72*time.Hour, 2*time.Hour)

	resp, err := flow.List(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	// Soonest first.
	assert.Equal(t, "soon", resp.Events[0].Title)
	assert.Equal(t, "later", resp.Events[1].Title)

	all, err := flow.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}

func TestEventUpdateValidatesRange(t *testing.T) {
	flow := NewEventFlow(newFakeEventRepo(), &fakeDispatch{})
	event := createEvent(t, flow, "TechFest", 24*time.Hour, 8*time.Hour)

	badEnd := utils.UTCNow()
	_, err := flow.Update(context.Background(), event.ID, &dto.UpdateEventRequest{EndsAt: &badEnd}, nil)
	assert.True(t, IsEventEndsBeforeStart(err))

	newTitle := "TechFest, day two"
	updated, err := flow.Update(context.Background(), event.ID, &dto.UpdateEventRequest{Title: &newTitle}, nil)
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	_, err = flow.Update(context.Background(), 999, &dto.UpdateEventRequest{Title: &newTitle}, nil)
	assert.True(t, IsEventNotFound(err))
}

func TestEventDelete(t *testing.T) {
	flow := NewEventFlow(newFakeEventRepo(), &fakeDispatch{})
	event := createEvent(t, flow, "TechFest", 24*time.Hour, 8*time.Hour)

	require.NoError(t, flow.Delete(context.Background(), event.ID))
	assert.True(t, IsEventNotFound(flow.Delete(context.Background(), event.ID)))
}
