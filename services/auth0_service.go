package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hazel-ko/artcommissions-api/config"
)

// Auth0UserInfo is the subset of the Auth0 /userinfo payload the
// marketplace needs to provision a local account.
type Auth0UserInfo struct {
	Sub   string `json:"sub"` // Auth0 user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth0Service resolves access tokens to Auth0 user profiles.
type Auth0Service struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuth0Service builds a client for the configured Auth0 tenant.
// A domain that already carries a scheme is used verbatim, which lets
// tests point the client at an httptest server.
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	baseURL := cfg.Auth0Domain
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	return &Auth0Service{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUserInfo exchanges an access token for the profile Auth0 holds on
// the token's subject. Used once at account provisioning time.
func (s *Auth0Service) GetUserInfo(accessToken string) (*Auth0UserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/userinfo", s.baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo Auth0UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &userInfo, nil
}
