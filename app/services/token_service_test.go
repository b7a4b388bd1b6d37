// Package services provides external service integrations and technical concerns like identity verification and tokens
package services

import (
	"testing"
	"time"

	"github.com/eduvia/eduvia-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name            string
		accessTokenTTL  time.Duration
		refreshTokenTTL time.Duration
		issuer          string
		audience        string
		useRSAKeys      bool
		privateKeyPEM   string
		publicKeyPEM    string
		secretKey       string
		expectError     bool
	}{
		{
			name:            "valid symmetric key configuration",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      false,
			secretKey:       "test-secret-key-for-jwt-signing-32-chars",
			expectError:     false,
		},
		{
			name:            "missing secret key",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      false,
			secretKey:       "",
			expectError:     true,
		},
		{
			name:            "rsa requested without keys",
			accessTokenTTL:  15 * time.Minute,
			refreshTokenTTL: 7 * 24 * time.Hour,
			issuer:          "test-issuer",
			audience:        "test-audience",
			useRSAKeys:      true,
			secretKey:       "unused",
			expectError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				tt.accessTokenTTL,
				tt.refreshTokenTTL,
				tt.issuer,
				tt.audience,
				tt.useRSAKeys,
				tt.privateKeyPEM,
				tt.publicKeyPEM,
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID uint
		role   string
	}{
		{
			name:   "student",
			userID: 123,
			role:   models.RoleStudent,
		},
		{
			name:   "admin",
			userID: 7,
			role:   models.RoleAdmin,
		},
		{
			name:   "super admin",
			userID: 1,
			role:   models.RoleSuperAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessToken, refreshToken, err := service.GenerateTokens(tt.userID, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, accessToken)
			assert.NotEmpty(t, refreshToken)
			assert.NotEqual(t, accessToken, refreshToken)

			claims, err := service.ValidateToken(accessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, "access", claims.TokenType)
			assert.NotEmpty(t, claims.TokenID)

			refreshClaims, err := service.ValidateToken(refreshToken)
			require.NoError(t, err)
			assert.Equal(t, "refresh", refreshClaims.TokenType)
			assert.Equal(t, tt.userID, refreshClaims.UserID)
			assert.NotEqual(t, claims.TokenID, refreshClaims.TokenID)
		})
	}
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(42, models.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{
			name:  "valid token",
			token: accessToken,
		},
		{
			name:        "empty token",
			token:       "",
			expectedErr: ErrTokenInvalid,
		},
		{
			name:        "garbage token",
			token:       "not.a.jwt",
			expectedErr: ErrTokenInvalid,
		},
		{
			name:        "tampered token",
			token:       accessToken + "x",
			expectedErr: ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(42), claims.UserID)
			}
		})
	}
}

func TestValidateTokenExpired(t *testing.T) {
	service, err := NewTokenService(
		-1*time.Minute, // already expired
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(42, models.RoleStudent)
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestValidateTokenWrongKey(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	other, err := NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"a-completely-different-secret-key-string",
	)
	require.NoError(t, err)

	accessToken, _, err := other.GenerateTokens(42, models.RoleStudent)
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42, models.RoleAdmin)
	require.NoError(t, err)

	t.Run("refresh with refresh token", func(t *testing.T) {
		newAccess, newRefresh, err := service.RefreshToken(refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := service.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("refresh with access token fails", func(t *testing.T) {
		_, _, err := service.RefreshToken(accessToken)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a refresh token")
	})

	t.Run("refresh with garbage fails", func(t *testing.T) {
		_, _, err := service.RefreshToken("garbage")
		assert.Error(t, err)
	})
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42, models.RoleStudent)
	require.NoError(t, err)

	require.NoError(t, service.RevokeToken(accessToken))

	claims, err := service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Nil(t, claims)
	assert.True(t, service.IsTokenRevoked(accessToken))

	// Revocation is per token, not per user
	claims, err = service.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		assert.NoError(t, service.RevokeToken(accessToken))
	})

	t.Run("revoking an invalid token errors", func(t *testing.T) {
		assert.Error(t, service.RevokeToken("garbage"))
	})
}

func TestTokenServiceConcurrency(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tokens := make([]string, 20)
	for i := range tokens {
		access, _, err := service.GenerateTokens(uint(i+1), models.RoleStudent)
		require.NoError(t, err)
		tokens[i] = access
	}

	done := make(chan struct{})
	for _, tok := range tokens {
		go func(tok string) {
			defer func() { done <- struct{}{} }()
			_ = service.RevokeToken(tok)
			_, _ = service.ValidateToken(tok)
		}(tok)
	}
	for range tokens {
		<-done
	}

	for _, tok := range tokens {
		assert.True(t, service.IsTokenRevoked(tok))
	}
}
