package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
)

const adminEmailKey = "adminEmail"

// AuthMiddleware guards mutating routes. The access token arrives as a
// bearer header from the admin panel or as a cookie from same-origin pages.
func AuthMiddleware(authService *services.AuthService, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie("access_token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		email, err := authService.ValidateAccess(token)
		if err != nil {
			logger.Auth().Debug("Access token rejected", "path", c.Request.URL.Path, "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(adminEmailKey, email)
		c.Next()
	}
}

// GetAdminEmail returns the authenticated admin identity set by AuthMiddleware.
func GetAdminEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(adminEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
