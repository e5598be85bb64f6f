package sharesight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTokenURL = "https://api.sharesight.com/oauth2/token"

	// refreshSkew renews tokens slightly before their reported expiry.
	refreshSkew = 30 * time.Second
)

// StaticTokenSource returns a token source that always yields the same
// access token. Used when a long-lived token is configured directly.
func StaticTokenSource(token string) *staticTokenSource {
	return &staticTokenSource{token: token}
}

type staticTokenSource struct {
	token string
}

func (s *staticTokenSource) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("no access token configured")
	}
	return s.token, nil
}

// RefreshTokenSource exchanges an OAuth2 refresh token for access tokens
// at the configured token URL and caches them until expiry. The refresh
// token is rotated when the server returns a new one.
type RefreshTokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu           sync.Mutex
	refreshToken string
	accessToken  string
	expiry       time.Time
}

// NewRefreshTokenSource creates a refreshing token source.
func NewRefreshTokenSource(tokenURL, clientID, clientSecret, refreshToken string) *RefreshTokenSource {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &RefreshTokenSource{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
	}
}

// Token returns the cached access token, refreshing it when expired.
func (s *RefreshTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.expiry.Add(-refreshSkew)) {
		return s.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.refreshToken)
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "oauth2/token",
		}
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	s.accessToken = payload.AccessToken
	if payload.RefreshToken != "" {
		s.refreshToken = payload.RefreshToken
	}
	if payload.ExpiresIn > 0 {
		s.expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	} else {
		s.expiry = time.Now().Add(30 * time.Minute)
	}

	return s.accessToken, nil
}
