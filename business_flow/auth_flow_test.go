package businessflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/eduvia/eduvia-api/app/dto"
	"github.com/eduvia/eduvia-api/app/services"
	"github.com/eduvia/eduvia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenService issues predictable tokens and records revocations
type fakeTokenService struct {
	issued     int
	revoked    []string
	refreshErr error
}

func (s *fakeTokenService) GenerateTokens(userID uint, role string) (string, string, error) {
	s.issued++
	return fmt.Sprintf("access-%d", s.issued), fmt.Sprintf("refresh-%d", s.issued), nil
}

func (s *fakeTokenService) ValidateToken(token string) (*services.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeTokenService) RefreshToken(refreshToken string) (string, string, error) {
	if s.refreshErr != nil {
		return "", "", s.refreshErr
	}
	s.issued++
	return fmt.Sprintf("access-%d", s.issued), fmt.Sprintf("refresh-%d", s.issued), nil
}

func (s *fakeTokenService) RevokeToken(token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *fakeTokenService) IsTokenRevoked(token string) bool {
	for _, t := range s.revoked {
		if t == token {
			return true
		}
	}
	return false
}

func newAuthFlowForTest(tokens *fakeTokenService) *AuthFlowImpl {
	flow := NewAuthFlow(newFakeUserRepo(), nil, tokens,
		"Principal@College.edu", []string{"hod.cs@college.edu", " Dean@College.edu "}, 0, nil)
	return flow.(*AuthFlowImpl)
}

func TestRoleForEmail(t *testing.T) {
	flow := newAuthFlowForTest(&fakeTokenService{})

	tests := []struct {
		email string
		want  string
	}{
		{"principal@college.edu", models.RoleSuperAdmin},
		{"PRINCIPAL@college.edu", models.RoleSuperAdmin},
		{"hod.cs@college.edu", models.RoleAdmin},
		{"dean@college.edu", models.RoleAdmin},
		{"student@college.edu", models.RoleStudent},
		{"", models.RoleStudent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, flow.roleForEmail(tt.email), tt.email)
	}
}

func TestRoleRankOrdering(t *testing.T) {
	assert.Greater(t, roleRank(models.RoleSuperAdmin), roleRank(models.RoleAdmin))
	assert.Greater(t, roleRank(models.RoleAdmin), roleRank(models.RoleStudent))
	assert.Equal(t, 0, roleRank("unknown"))
}

func TestRefreshRotatesAndRevokes(t *testing.T) {
	tokens := &fakeTokenService{}
	flow := newAuthFlowForTest(tokens)

	session, err := flow.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "refresh-old"}, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "Bearer", session.TokenType)
	// Refresh tokens are single use.
	assert.Contains(t, tokens.revoked, "refresh-old")
}

func TestRefreshFailure(t *testing.T) {
	tokens := &fakeTokenService{refreshErr: errors.New("expired")}
	flow := newAuthFlowForTest(tokens)

	_, err := flow.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "refresh-old"}, nil)

	var bizErr *BusinessError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, "TOKEN_REFRESH_FAILED", bizErr.Code)
	assert.Empty(t, tokens.revoked)
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	tokens := &fakeTokenService{}
	flow := newAuthFlowForTest(tokens)

	err := flow.Logout(context.Background(), "access-1", &dto.LogoutRequest{RefreshToken: "refresh-1"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"access-1", "refresh-1"}, tokens.revoked)
}

func TestLogoutWithoutRefreshToken(t *testing.T) {
	tokens := &fakeTokenService{}
	flow := newAuthFlowForTest(tokens)

	require.NoError(t, flow.Logout(context.Background(), "access-1", nil, nil))
	assert.Equal(t, []string{"access-1"}, tokens.revoked)
}
