package businessflow

import (
	"context"
	"testing"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileUnknownUser(t *testing.T) {
	flow := NewProfileFlow(newFakeUserRepo())

	_, err := flow.GetProfile(context.Background(), 42)
	assert.True(t, IsUserNotFound(err))
}

func TestGetProfileCompleteness(t *testing.T) {
	users := newFakeUserRepo()
	flow := NewProfileFlow(users)

	fresh := users.add(models.User{Email: "fresh@college.edu", Role: models.RoleStudent})
	done := seedStudent(users, "CS", 3, 2)

	resp, err := flow.GetProfile(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.False(t, resp.ProfileComplete)

	resp, err = flow.GetProfile(context.Background(), done.ID)
	require.NoError(t, err)
	assert.True(t, resp.ProfileComplete)
}

func TestUpdateProfileMarksCompleteOnlyWhenAllDimensionsSet(t *testing.T) {
	users := newFakeUserRepo()
	flow := NewProfileFlow(users)
	user := users.add(models.User{Email: "s@college.edu", Name: "S", Role: models.RoleStudent})

	// Branch alone is not enough.
	resp, err := flow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
		Branch: utils.ToPtr("Computer Science"),
	}, nil)
	require.NoError(t, err)
	assert.False(t, resp.ProfileComplete)

	// Semester and year complete the matching profile.
	resp, err = flow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
		Semester:    utils.ToPtr(3),
		YearOfStudy: utils.ToPtr(2),
	}, nil)
	require.NoError(t, err)
	assert.True(t, resp.ProfileComplete)
	assert.Equal(t, "Computer Science", *resp.User.Branch)
}

func TestUpdateProfilePartialFieldsPreserved(t *testing.T) {
	users := newFakeUserRepo()
	flow := NewProfileFlow(users)
	user := seedStudent(users, "CS", 3, 2)

	resp, err := flow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
		Name: utils.ToPtr("Renamed"),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.User.Name)
	assert.Equal(t, "CS", *resp.User.Branch)
	assert.Equal(t, 3, *resp.User.Semester)
}

func TestDeleteAccount(t *testing.T) {
	users := newFakeUserRepo()
	flow := NewProfileFlow(users)
	user := seedStudent(users, "CS", 3, 2)

	require.NoError(t, flow.DeleteAccount(context.Background(), user.ID))
	assert.True(t, IsUserNotFound(flow.DeleteAccount(context.Background(), user.ID)))
}
