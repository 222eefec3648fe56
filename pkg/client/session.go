// Package client provides a Go client for the SiteDeck admin API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const refreshCookieName = "refresh_token"

// ErrSessionExpired is returned when the refresh token itself has been
// rejected and a full re-login is required.
var ErrSessionExpired = errors.New("session expired, login required")

// APIError represents an error returned from an API request.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s request to %s returned status code %d, response body: %s",
		e.Method, e.URL, e.StatusCode, e.Body)
}

// IsAPIError reports whether err is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Config holds connection settings for a SiteDeck session.
type Config struct {
	BaseURL  string
	Email    string
	Password string

	// Timeout applies when no custom HTTPClient is provided.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Session holds the authenticated state against one SiteDeck server. The
// access token is refreshed transparently; concurrent requests share a
// single refresh.
type Session struct {
	config *Config
	client *http.Client

	mu            sync.Mutex
	accessToken   string
	refreshCookie *http.Cookie
}

// NewSession creates a session and performs the initial login.
func NewSession(ctx context.Context, config *Config) (*Session, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if config.Email == "" || config.Password == "" {
		return nil, errors.New("email and password are required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	s := &Session{
		config: config,
		client: httpClient,
	}
	if err := s.login(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    s.config.Email,
		"password": s.config.Password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url("/api/v1/auth/login"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(req, resp)
	}
	return s.consumeTokens(resp)
}

// refresh exchanges the stored refresh cookie for a new access token.
// Callers must hold s.mu.
func (s *Session) refresh(ctx context.Context) error {
	if s.refreshCookie == nil {
		return ErrSessionExpired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url("/api/v1/auth/refresh"), nil)
	if err != nil {
		return err
	}
	req.AddCookie(s.refreshCookie)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(req, resp)
	}
	return s.consumeTokens(resp)
}

// consumeTokens stores the access token and any rotated refresh cookie
// from an auth response.
func (s *Session) consumeTokens(resp *http.Response) error {
	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	if tokens.AccessToken == "" {
		return errors.New("auth response carried no access token")
	}

	s.accessToken = tokens.AccessToken
	for _, cookie := range resp.Cookies() {
		if cookie.Name == refreshCookieName && cookie.Value != "" {
			s.refreshCookie = cookie
		}
	}
	return nil
}

// do performs one authenticated JSON request. A 401 triggers a single
// token refresh and one retry; a second 401 surfaces as an APIError.
func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	token := s.token()
	resp, err := s.send(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := s.refreshAccess(ctx, token); err != nil {
			return err
		}
		resp, err = s.send(ctx, method, path, body, s.token())
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.Request, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Session) send(ctx context.Context, method, path string, body any, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.url(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s: %w", method, path, err)
	}
	return resp, nil
}

func (s *Session) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// refreshAccess serializes refreshes so a burst of 401s costs one
// round trip. Requests that queued behind an in-flight refresh see a
// changed token and skip their own.
func (s *Session) refreshAccess(ctx context.Context, stale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != stale {
		return nil
	}
	return s.refresh(ctx)
}

func (s *Session) url(path string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + path
}

func responseError(req *http.Request, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(body)),
	}
}
