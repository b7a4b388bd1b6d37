// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"errors"
	"time"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/app/services"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthFlow handles OAuth sign-in and session management
type AuthFlow interface {
	SignIn(ctx context.Context, request *dto.SignInRequest, metadata *ClientMetadata) (*dto.SignInResponse, error)
	Refresh(ctx context.Context, request *dto.RefreshRequest, metadata *ClientMetadata) (*dto.SessionDTO, error)
	Logout(ctx context.Context, accessToken string, request *dto.LogoutRequest, metadata *ClientMetadata) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo         repository.UserRepository
	identityProvider services.IdentityProvider
	tokenService     services.TokenService
	superAdminEmail  string
	adminEmails      []string
	accessTokenTTL   time.Duration
	db               *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	identityProvider services.IdentityProvider,
	tokenService services.TokenService,
	superAdminEmail string,
	adminEmails []string,
	accessTokenTTL time.Duration,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:         userRepo,
		identityProvider: identityProvider,
		tokenService:     tokenService,
		superAdminEmail:  utils.NormalizeEmail(superAdminEmail),
		adminEmails:      normalizeEmails(adminEmails),
		accessTokenTTL:   accessTokenTTL,
		db:               db,
	}
}

// SignIn verifies the provider token, gets or creates the user and issues a session
func (af *AuthFlowImpl) SignIn(ctx context.Context, request *dto.SignInRequest, metadata *ClientMetadata) (*dto.SignInResponse, error) {
	identity, err := af.identityProvider.Verify(ctx, request.Provider, request.Token)
	if err != nil {
		if errors.Is(err, services.ErrIdentityProvider) {
			return nil, NewBusinessError("UNSUPPORTED_PROVIDER", "Unsupported identity provider", ErrUnsupportedProvider)
		}
		return nil, NewBusinessError("PROVIDER_TOKEN_INVALID", "Provider token verification failed", ErrInvalidProviderToken)
	}

	var user *models.User
	var isNewUser bool

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		var err error
		user, err = af.userRepo.ByEmail(txCtx, identity.Email)
		if err != nil {
			return err
		}

		if user == nil {
			user = &models.User{
				UUID:     uuid.New(),
				Email:    identity.Email,
				Name:     identity.Name,
				Picture:  identity.Picture,
				Provider: identity.Provider,
				Subject:  identity.Subject,
				Role:     af.roleForEmail(identity.Email),
			}
			isNewUser = true
			return af.userRepo.Save(txCtx, user)
		}

		// Refresh display fields from the provider on every sign-in.
		user.Name = identity.Name
		user.Picture = identity.Picture
		user.Provider = identity.Provider
		user.Subject = identity.Subject

		// Config grants only promote; a role granted earlier is never taken away here.
		if granted := af.roleForEmail(identity.Email); roleRank(granted) > roleRank(user.Role) {
			user.Role = granted
		}
		return af.userRepo.Update(txCtx, user)
	})
	if err != nil {
		return nil, NewBusinessError("SIGN_IN_FAILED", "Failed to sign in", err)
	}

	accessToken, refreshToken, err := af.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate session tokens", err)
	}

	return &dto.SignInResponse{
		User:      ToUserDTO(*user),
		Session:   ToSessionDTO(accessToken, refreshToken, af.accessTokenTTL),
		IsNewUser: isNewUser,
	}, nil
}

// Refresh exchanges a refresh token for a new token pair
func (af *AuthFlowImpl) Refresh(ctx context.Context, request *dto.RefreshRequest, metadata *ClientMetadata) (*dto.SessionDTO, error) {
	accessToken, refreshToken, err := af.tokenService.RefreshToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Failed to refresh session", err)
	}

	// Single-use refresh tokens: the old one dies with the exchange.
	if err := af.tokenService.RevokeToken(request.RefreshToken); err != nil {
		return nil, NewBusinessError("TOKEN_REVOKE_FAILED", "Failed to revoke old refresh token", err)
	}

	session := ToSessionDTO(accessToken, refreshToken, af.accessTokenTTL)
	return &session, nil
}

// Logout revokes the current access token and, when provided, the refresh token
func (af *AuthFlowImpl) Logout(ctx context.Context, accessToken string, request *dto.LogoutRequest, metadata *ClientMetadata) error {
	if err := af.tokenService.RevokeToken(accessToken); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Failed to revoke access token", err)
	}
	if request != nil && request.RefreshToken != "" {
		if err := af.tokenService.RevokeToken(request.RefreshToken); err != nil {
			return NewBusinessError("LOGOUT_FAILED", "Failed to revoke refresh token", err)
		}
	}
	return nil
}

// roleForEmail returns the role the deployment config grants to an email
func (af *AuthFlowImpl) roleForEmail(email string) string {
	email = utils.NormalizeEmail(email)
	if af.superAdminEmail != "" && email == af.superAdminEmail {
		return models.RoleSuperAdmin
	}
	for _, admin := range af.adminEmails {
		if email == admin {
			return models.RoleAdmin
		}
	}
	return models.RoleStudent
}

func roleRank(role string) int {
	switch role {
	case models.RoleSuperAdmin:
		return 2
	case models.RoleAdmin:
		return 1
	default:
		return 0
	}
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = utils.NormalizeEmail(e)
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
