package businessflow

import (
	"context"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
)

// ProfileFlow handles reading and updating the academic profile
type ProfileFlow interface {
	GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, request *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	userRepo repository.UserRepository
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(userRepo repository.UserRepository) ProfileFlow {
	return &ProfileFlowImpl{userRepo: userRepo}
}

func (pf *ProfileFlowImpl) GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	user, err := pf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	return &dto.ProfileResponse{
		User:            ToUserDTO(*user),
		ProfileComplete: profileComplete(user),
	}, nil
}

// UpdateProfile applies the provided fields and marks the profile completed
// once branch, semester, and year are all present.
func (pf *ProfileFlowImpl) UpdateProfile(ctx context.Context, userID uint, request *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error) {
	user, err := pf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	if request.Name != nil {
		user.Name = *request.Name
	}
	if request.College != nil {
		user.College = request.College
	}
	if request.Mobile != nil {
		user.Mobile = request.Mobile
	}
	if request.Branch != nil {
		user.Branch = request.Branch
	}
	if request.ProgramType != nil {
		user.ProgramType = request.ProgramType
	}
	if request.Semester != nil {
		user.Semester = request.Semester
	}
	if request.YearOfStudy != nil {
		user.YearOfStudy = request.YearOfStudy
	}
	user.ProfileCompleted = profileComplete(user)

	if err := pf.userRepo.Update(ctx, user); err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}

	return &dto.ProfileResponse{
		User:            ToUserDTO(*user),
		ProfileComplete: user.ProfileCompleted,
	}, nil
}

// DeleteAccount removes the caller's user row
func (pf *ProfileFlowImpl) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := pf.userRepo.ByID(ctx, userID)
	if err != nil {
		return NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}
	if user == nil {
		return NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	if err := pf.userRepo.Delete(ctx, userID); err != nil {
		return NewBusinessError("ACCOUNT_DELETE_FAILED", "Failed to delete account", err)
	}
	return nil
}

// profileComplete reports whether every matching dimension of the profile is set
func profileComplete(user *models.User) bool {
	return user.Branch != nil && *user.Branch != "" &&
		user.Semester != nil && user.YearOfStudy != nil
}
