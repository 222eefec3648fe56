// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

const refreshCookieName = "refresh_token"

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login - admin authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()
	h.logger.Auth().Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tokens, err := h.authService.Login(loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, config.RefreshTokenTTL)
	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostLogin request", "duration", time.Since(start), "success", true)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": tokens.AccessToken,
		"expiresIn":   tokens.ExpiresIn,
	})
}

// PostRefresh handles POST /api/v1/auth/refresh - new access token from the refresh cookie
func (h *AuthHandlers) PostRefresh(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_refresh_request")
	defer marker.Complete()
	h.logger.Auth().Debug("Received refresh request", "method", c.Request.Method, "path", c.Request.URL.Path)

	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token"})
		return
	}

	tokens, err := h.authService.Refresh(refreshToken)
	if err != nil {
		h.setRefreshCookie(c, "", -time.Hour)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostRefresh request", "duration", time.Since(start), "success", true)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": tokens.AccessToken,
		"expiresIn":   tokens.ExpiresIn,
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears the refresh cookie
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_logout_request")
	defer marker.Complete()

	h.setRefreshCookie(c, "", -time.Hour)
	marker.SetSuccess(true)
	h.logger.Auth().Info("Admin logout")

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// GetStatus handles GET /api/v1/auth/status - reports whether the caller holds a valid access token
func (h *AuthHandlers) GetStatus(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_auth_status_request")
	defer marker.Complete()

	token := c.GetHeader("Authorization")
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	} else {
		token, _ = c.Cookie("access_token")
	}

	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	email, err := h.authService.ValidateAccess(token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "email": email})
}

func (h *AuthHandlers) setRefreshCookie(c *gin.Context, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, value, int(ttl/time.Second), "/api/v1/auth", "", false, true)
}
