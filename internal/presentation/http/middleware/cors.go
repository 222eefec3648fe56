package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

// CORSMiddleware provides the CORS configuration for the admin panel and the
// public site.
func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection",
		},
	}

	if config.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
		// credentialed requests cannot pair with a wildcard origin
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")
	}

	return cors.New(corsConfig)
}
