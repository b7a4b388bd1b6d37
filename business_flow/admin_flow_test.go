package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newAdminFlowForTest(users *fakeUserRepo) AdminFlow {
	return NewAdminFlow(users, newFakeNoteRepo(), newFakeEventRepo(), newFakeLostFoundRepo(), newFakeNotificationRepo())
}

func TestAdminStats(t *testing.T) {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	flow := NewAdminFlow(users, notes, newFakeEventRepo(), newFakeLostFoundRepo(), newFakeNotificationRepo())

	seedStudent(users, "CS", 1, 1)
	seedStudent(users, "CS", 3, 2)
	seedStudent(users, "EC", 1, 1)
	seedNote(notes, "one", nil, nil, nil)

	stats, err := flow.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalNotes)
	assert.Equal(t, int64(2), stats.UsersByBranch["CS"])
	assert.Equal(t, int64(1), stats.UsersByBranch["EC"])
}

func TestAdminListUsersValidatesPage(t *testing.T) {
	flow := newAdminFlowForTest(newFakeUserRepo())

	_, err := flow.ListUsers(context.Background(), 0)

	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, "INVALID_PAGE", bizErr.Code)
}

func TestAdminListUsers(t *testing.T) {
	users := newFakeUserRepo()
	flow := newAdminFlowForTest(users)

	seedStudent(users, "CS", 1, 1)
	seedStudent(users, "EC", 3, 2)

	resp, err := flow.ListUsers(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Len(t, resp.Users, 2)
}

func TestAdminChangeRole(t *testing.T) {
	users := newFakeUserRepo()
	flow := newAdminFlowForTest(users)

	super := users.add(models.User{Email: "principal@college.edu", Role: models.RoleSuperAdmin})
	student := seedStudent(users, "CS", 1, 1)
	promote := &dto.PromoteUserRequest{Role: models.RoleAdmin}

	// Actors cannot change their own role.
	_, err := flow.ChangeRole(context.Background(), super.ID, super.ID, promote)
	assert.True(t, IsCannotDemoteSelf(err))

	// The super admin row itself is immutable here.
	_, err = flow.ChangeRole(context.Background(), student.ID, super.ID, promote)
	assert.True(t, IsCannotChangeSuperAdmin(err))

	_, err = flow.ChangeRole(context.Background(), super.ID, 999, promote)
	assert.True(t, IsUserNotFound(err))

	promoted, err := flow.ChangeRole(context.Background(), super.ID, student.ID, promote)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	demoted, err := flow.ChangeRole(context.Background(), super.ID, student.ID, &dto.PromoteUserRequest{Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, demoted.Role)
}

func TestAdminExportUsersExcel(t *testing.T) {
	users := newFakeUserRepo()
	flow := newAdminFlowForTest(users)

	seedStudent(users, "CS", 1, 1)
	seedStudent(users, "EC", 3, 2)

	filename, content, err := flow.ExportUsersExcel(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "users_2.xlsx", filename)
	require.NotEmpty(t, content)

	xl, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("Users")
	require.NoError(t, err)
	// Header plus one row per user.
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "email", rows[0][1])
}
