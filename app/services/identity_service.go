package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Identity service error constants
var (
	ErrIdentityTokenInvalid = errors.New("identity token is invalid")
	ErrIdentityAudience     = errors.New("identity token audience mismatch")
	ErrIdentityProvider     = errors.New("unsupported identity provider")
)

// Supported identity providers
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// VerifiedIdentity is the trusted identity extracted from a provider token
type VerifiedIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	Picture  string
}

// IdentityProvider verifies OAuth tokens issued by external providers
type IdentityProvider interface {
	Verify(ctx context.Context, provider, token string) (*VerifiedIdentity, error)
}

// IdentityProviderImpl verifies tokens against the providers' public endpoints
type IdentityProviderImpl struct {
	googleClientID  string
	googleTokenURL  string
	githubUserURL   string
	githubEmailsURL string
	httpClient      *http.Client
}

// NewIdentityProvider creates an identity provider client
func NewIdentityProvider(googleClientID string, timeout time.Duration) IdentityProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IdentityProviderImpl{
		googleClientID:  googleClientID,
		googleTokenURL:  "https://oauth2.googleapis.com/tokeninfo",
		githubUserURL:   "https://api.github.com/user",
		githubEmailsURL: "https://api.github.com/user/emails",
		httpClient:      &http.Client{Timeout: timeout},
	}
}

func (p *IdentityProviderImpl) Verify(ctx context.Context, provider, token string) (*VerifiedIdentity, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGoogle:
		return p.verifyGoogle(ctx, token)
	case ProviderGitHub:
		return p.verifyGitHub(ctx, token)
	default:
		return nil, ErrIdentityProvider
	}
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// verifyGoogle validates a Google ID token via the tokeninfo endpoint
func (p *IdentityProviderImpl) verifyGoogle(ctx context.Context, idToken string) (*VerifiedIdentity, error) {
	endpoint := p.googleTokenURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrIdentityTokenInvalid
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode google tokeninfo response: %w", err)
	}

	if p.googleClientID != "" && info.Aud != p.googleClientID {
		return nil, ErrIdentityAudience
	}
	if info.Sub == "" || info.Email == "" {
		return nil, ErrIdentityTokenInvalid
	}
	if info.EmailVerified != "true" {
		return nil, ErrIdentityTokenInvalid
	}

	return &VerifiedIdentity{
		Provider: ProviderGoogle,
		Subject:  info.Sub,
		Email:    strings.ToLower(info.Email),
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// verifyGitHub validates a GitHub OAuth access token against the user API
func (p *IdentityProviderImpl) verifyGitHub(ctx context.Context, accessToken string) (*VerifiedIdentity, error) {
	user, err := p.fetchGitHubUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(user.Email)
	if email == "" {
		// The public email may be hidden; fall back to the emails endpoint.
		email, err = p.fetchGitHubPrimaryEmail(ctx, accessToken)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, ErrIdentityTokenInvalid
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &VerifiedIdentity{
		Provider: ProviderGitHub,
		Subject:  fmt.Sprintf("%d", user.ID),
		Email:    email,
		Name:     name,
		Picture:  user.AvatarURL,
	}, nil
}

func (p *IdentityProviderImpl) fetchGitHubUser(ctx context.Context, accessToken string) (*githubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.githubUserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrIdentityTokenInvalid
	}

	var user githubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode github user response: %w", err)
	}
	if user.ID == 0 {
		return nil, ErrIdentityTokenInvalid
	}
	return &user, nil
}

func (p *IdentityProviderImpl) fetchGitHubPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.githubEmailsURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("github emails request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrIdentityTokenInvalid
	}

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("decode github emails response: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return strings.ToLower(e.Email), nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return strings.ToLower(e.Email), nil
		}
	}
	return "", nil
}
