package businessflow

import (
	"context"
	"testing"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSlot(t *testing.T, flow TimetableFlow, course, day, start, end string) *dto.TimetableEntryDTO {
	t.Helper()
	entry, err := flow.Create(context.Background(), 1, &dto.CreateTimetableEntryRequest{
		Course:    course,
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Room:      "LT-204",
		Faculty:   "Dr. Rao",
	}, nil)
	require.NoError(t, err)
	return entry
}

func TestTimetableCreateRejectsInvertedRange(t *testing.T) {
	flow := NewTimetableFlow(newFakeTimetableRepo(), &fakeDispatch{})

	_, err := flow.Create(context.Background(), 1, &dto.CreateTimetableEntryRequest{
		Course:    "DSP",
		Day:       "Monday",
		StartTime: "10:30",
		EndTime:   "09:00",
		Room:      "LT-204",
		Faculty:   "Dr. Rao",
	}, nil)

	assert.True(t, IsInvalidTimeRange(err))
}

func TestTimetableCreateBroadcastsClassUpdate(t *testing.T) {
	users := newFakeUserRepo()
	notifications := newFakeNotificationRepo()
	flow := NewTimetableFlow(newFakeTimetableRepo(), NewDispatchFlow(users, notifications))
	seedStudent(users, "CS", 1, 1)

	createSlot(t, flow, "DSP", "Monday", "09:00", "10:30")

	require.Len(t, notifications.rows, 1)
	assert.Equal(t, models.NotificationTypeClassUpdate, notifications.rows[0].Type)
}

func TestTimetableListGroupsByDayAndFiltersByCourse(t *testing.T) {
	flow := NewTimetableFlow(newFakeTimetableRepo(), &fakeDispatch{})

	createSlot(t, flow, "DSP", "Monday", "09:00", "10:30")
	createSlot(t, flow, "DSP", "Wednesday", "11:00", "12:30")
	createSlot(t, flow, "Networks", "Monday", "14:00", "15:30")

	resp, err := flow.List(context.Background(), "")
	require.NoError(t, err)
	// Every teaching day is present even when empty.
	require.Len(t, resp.Days, len(models.TimetableDays))
	assert.Len(t, resp.Days["Monday"], 2)
	assert.Len(t, resp.Days["Wednesday"], 1)
	assert.Empty(t, resp.Days["Friday"])

	dsp, err := flow.List(context.Background(), "DSP")
	require.NoError(t, err)
	assert.Len(t, dsp.Days["Monday"], 1)
	assert.Len(t, dsp.Days["Wednesday"], 1)
	assert.Equal(t, "DSP", dsp.Days["Monday"][0].Course)
}

func TestTimetableUpdate(t *testing.T) {
	users := newFakeUserRepo()
	notifications := newFakeNotificationRepo()
	flow := NewTimetableFlow(newFakeTimetableRepo(), NewDispatchFlow(users, notifications))
	seedStudent(users, "CS", 1, 1)

	entry := createSlot(t, flow, "DSP", "Monday", "09:00", "10:30")

	room := "LT-101"
	updated, err := flow.Update(context.Background(), entry.ID, &dto.UpdateTimetableEntryRequest{Room: &room}, nil)
	require.NoError(t, err)
	assert.Equal(t, "LT-101", updated.Room)
	// Create and update each notified the campus.
	assert.Len(t, notifications.rows, 2)

	badEnd := "08:00"
	_, err = flow.Update(context.Background(), entry.ID, &dto.UpdateTimetableEntryRequest{EndTime: &badEnd}, nil)
	assert.True(t, IsInvalidTimeRange(err))

	_, err = flow.Update(context.Background(), 999, &dto.UpdateTimetableEntryRequest{Room: &room}, nil)
	assert.True(t, IsTimetableEntryNotFound(err))
}

func TestTimetableDelete(t *testing.T) {
	flow := NewTimetableFlow(newFakeTimetableRepo(), &fakeDispatch{})
	entry := createSlot(t, flow, "DSP", "Monday", "09:00", "10:30")

	require.NoError(t, flow.Delete(context.Background(), entry.ID))
	assert.True(t, IsTimetableEntryNotFound(flow.Delete(context.Background(), entry.ID)))
}
