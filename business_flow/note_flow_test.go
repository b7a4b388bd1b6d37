package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNote(notes *fakeNoteRepo, title string, branches []string, semesters []int32, year *int) *models.Note {
	if branches == nil {
		branches = []string{}
	}
	if semesters == nil {
		semesters = []int32{}
	}
	note := &models.Note{
		Title:       title,
		Course:      "Data Structures",
		FileID:      "file-" + title,
		DriveURL:    "https://drive.google.com/uc?id=" + title,
		Branches:    pq.StringArray(branches),
		Semesters:   pq.Int32Array(semesters),
		YearOfStudy: year,
		CreatedBy:   1,
	}
	_ = notes.Save(context.Background(), note)
	return note
}

func TestListVisibleFiltersByProfile(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewNoteFlow(notes, users, &fakeDispatch{}, nil, "", 0, nil)

	student := seedStudent(users, "Computer Science", 3, 2)
	seedNote(notes, "everyone", nil, nil, nil)
	seedNote(notes, "cs-only", []string{"Computer Science"}, nil, nil)
	seedNote(notes, "ec-only", []string{"Electronics"}, nil, nil)
	seedNote(notes, "wrong-semester", nil, []int32{5}, nil)
	seedNote(notes, "wrong-year", nil, nil, utils.ToPtr(4))

	resp, err := flow.ListVisible(context.Background(), student.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	titles := make([]string, 0, len(resp.Notes))
	for _, n := range resp.Notes {
		titles = append(titles, n.Title)
	}
	// Newest first.
	assert.Equal(t, []string{"cs-only", "everyone"}, titles)
}

func TestListVisibleSubstringBranchMatch(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewNoteFlow(notes, users, &fakeDispatch{}, nil, "", 0, nil)

	student := seedStudent(users, "Computer Science and Engineering (CS)", 3, 2)
	seedNote(notes, "short-name", []string{"computer science"}, nil, nil)

	resp, err := flow.ListVisible(context.Background(), student.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestListVisibleUnknownUser(t *testing.T) {
	flow := NewNoteFlow(newFakeNoteRepo(), newFakeUserRepo(), &fakeDispatch{}, nil, "", 0, nil)

	_, err := flow.ListVisible(context.Background(), 42)
	assert.True(t, IsUserNotFound(err))
}

func TestGetChecksVisibility(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewNoteFlow(notes, users, &fakeDispatch{}, nil, "", 0, nil)

	student := seedStudent(users, "Computer Science", 3, 2)
	admin := users.add(models.User{Email: "admin@college.edu", Role: models.RoleAdmin})
	visible := seedNote(notes, "cs-note", []string{"Computer Science"}, nil, nil)
	hidden := seedNote(notes, "ec-note", []string{"Electronics"}, nil, nil)

	got, err := flow.Get(context.Background(), student.ID, visible.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs-note", got.Title)

	_, err = flow.Get(context.Background(), student.ID, hidden.ID)
	assert.True(t, IsNoteNotVisible(err))

	// Admins bypass the audience check.
	got, err = flow.Get(context.Background(), admin.ID, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, "ec-note", got.Title)

	_, err = flow.Get(context.Background(), student.ID, 999)
	assert.True(t, IsNoteNotFound(err))
}

func TestCreateFansOutToAudience(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	notifications := newFakeNotificationRepo()
	dispatch := NewDispatchFlow(users, notifications)
	flow := NewNoteFlow(notes, users, dispatch, nil, "", 0, nil)

	cs1 := seedStudent(users, "CS", 1, 1)
	cs2 := seedStudent(users, "CS", 1, 1)
	cs3 := seedStudent(users, "CS", 1, 1)
	seedStudent(users, "EC", 1, 1)
	seedStudent(users, "EC", 1, 1)

	created, err := flow.Create(context.Background(), 1, &dto.CreateNoteRequest{
		Title:     "Unit 1 - Arrays",
		Course:    "Data Structures",
		FileID:    "1aBcD",
		DriveURL:  "https://drive.google.com/uc?id=1aBcD",
		Branches:  []string{"CS"},
		Semesters: []int{1},
	}, nil)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.ElementsMatch(t, []uint{cs1.ID, cs2.ID, cs3.ID}, notifications.recipients())
	for _, row := range notifications.rows {
		assert.Equal(t, models.NotificationTypeNewNote, row.Type)
		assert.Equal(t, "New note: Unit 1 - Arrays", row.Title)
	}
}

func TestCreateSurvivesFanOutFailure(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	dispatch := &fakeDispatch{err: errors.New("fan-out down")}
	flow := NewNoteFlow(notes, users, dispatch, nil, "", 0, nil)

	created, err := flow.Create(context.Background(), 1, &dto.CreateNoteRequest{
		Title:    "Unit 2",
		Course:   "DSP",
		FileID:   "f2",
		DriveURL: "https://drive.google.com/uc?id=f2",
	}, nil)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.Len(t, dispatch.calls, 1)
}

func TestDownloadReturnsDriveURL(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewNoteFlow(notes, users, &fakeDispatch{}, nil, "", 0, nil)

	student := seedStudent(users, "CS", 1, 1)
	note := seedNote(notes, "open", nil, nil, nil)
	hidden := seedNote(notes, "closed", []string{"EC"}, nil, nil)

	url, err := flow.Download(context.Background(), student.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.DriveURL, url)

	_, err = flow.Download(context.Background(), student.ID, hidden.ID)
	assert.True(t, IsNoteNotVisible(err))
}

func TestDeleteRemovesNote(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewNoteFlow(notes, users, &fakeDispatch{}, nil, "", 0, nil)

	note := seedNote(notes, "gone", nil, nil, nil)

	require.NoError(t, flow.Delete(context.Background(), note.ID))
	assert.True(t, IsNoteNotFound(flow.Delete(context.Background(), note.ID)))
}

func TestDebugMatchesExplainsEveryNote(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewNoteFlow(notes, users, &fakeDispatch{}, nil, "", 0, nil)

	student := seedStudent(users, "Computer Science", 3, 2)
	seedNote(notes, "match", []string{"Computer Science"}, nil, nil)
	seedNote(notes, "miss", []string{"Electronics"}, nil, nil)

	resp, err := flow.DebugMatches(context.Background(), student.ID)

	require.NoError(t, err)
	require.Len(t, resp.Reports, 2)
	byTitle := map[string]bool{}
	for _, report := range resp.Reports {
		byTitle[report.Note.Title] = report.Visible
	}
	assert.True(t, byTitle["match"])
	assert.False(t, byTitle["miss"])
}
