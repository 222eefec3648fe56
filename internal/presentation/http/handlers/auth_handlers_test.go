package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/presentation/http/middleware"
	"github.com/sitedeck/sitedeck-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestCredentials(t *testing.T) {
	t.Helper()
	prevSecret, prevEmail, prevPassword := config.JWTSecret, config.AdminEmail, config.AdminPassword
	config.JWTSecret = "test-secret"
	config.AdminEmail = "admin@example.com"
	config.AdminPassword = "hunter2"
	t.Cleanup(func() {
		config.JWTSecret, config.AdminEmail, config.AdminPassword = prevSecret, prevEmail, prevPassword
	})
}

func newAuthRouter(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	logger := newTestLogger(t)
	authService := services.NewAuthService(logger)
	h := NewAuthHandlers(authService, logger, newTestTracker())

	r := gin.New()
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", h.PostLogin)
		auth.POST("/refresh", h.PostRefresh)
		auth.POST("/logout", h.PostLogout)
		auth.GET("/status", h.GetStatus)
	}
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(authService, logger))
	protected.GET("/protected", func(c *gin.Context) {
		email, _ := middleware.GetAdminEmail(c)
		c.JSON(http.StatusOK, gin.H{"email": email})
	})
	return r, authService
}

func doLogin(t *testing.T, r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesTokenPair(t *testing.T) {
	setTestCredentials(t)
	r, authService := newAuthRouter(t)

	w := doLogin(t, r, "admin@example.com", "hunter2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int64  `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	assert.Positive(t, resp.ExpiresIn)

	email, err := authService.ValidateAccess(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Equal(t, "/api/v1/auth", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	setTestCredentials(t)
	r, _ := newAuthRouter(t)

	w := doLogin(t, r, "admin@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsWhenNoPasswordConfigured(t *testing.T) {
	setTestCredentials(t)
	config.AdminPassword = ""
	r, _ := newAuthRouter(t)

	w := doLogin(t, r, "admin@example.com", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	setTestCredentials(t)
	r, authService := newAuthRouter(t)

	login := doLogin(t, r, "admin@example.com", "hunter2")
	require.Equal(t, http.StatusOK, login.Code)
	refreshCookie := login.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	email, err := authService.ValidateAccess(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

func TestRefreshRejectsAccessTokenInCookie(t *testing.T) {
	setTestCredentials(t)
	r, _ := newAuthRouter(t)

	login := doLogin(t, r, "admin@example.com", "hunter2")
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	// an access token must not pass as a refresh token
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: resp.AccessToken})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareGuardsProtectedRoutes(t *testing.T) {
	setTestCredentials(t)
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	login := doLogin(t, r, "admin@example.com", "hunter2")
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}

func TestStatusReportsAuthentication(t *testing.T) {
	setTestCredentials(t)
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	login := doLogin(t, r, "admin@example.com", "hunter2")
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
