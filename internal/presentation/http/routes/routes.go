// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/container"
	"github.com/sitedeck/sitedeck-go/internal/presentation/http/handlers"
	"github.com/sitedeck/sitedeck-go/internal/presentation/http/middleware"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Serve uploaded media straight from disk.
	r.Static(config.MediaBaseURL, config.MediaDir)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	contentHandlers := handlers.NewContentHandlers(container.ContentService, container.Logger, container.PerfTracker)
	uploadHandlers := handlers.NewUploadHandlers(container.AssetService, container.Logger, container.PerfTracker)
	courseHandlers := handlers.NewCourseHandlers(container.CourseService, container.AuthService, container.Logger, container.PerfTracker)
	leadHandlers := handlers.NewLeadHandlers(container.LeadService, container.Logger, container.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(container.OrphanService, container.Broadcaster, container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/refresh", authHandlers.PostRefresh)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/status", authHandlers.GetStatus)
		}

		// Public read endpoints the marketing site renders from
		api.GET("/content", contentHandlers.GetContentMap)
		api.GET("/content/:key", contentHandlers.GetContentRoot)
		api.GET("/courses", courseHandlers.GetCourses)
		api.GET("/courses/:id", courseHandlers.GetCourse)
		api.POST("/leads", leadHandlers.PostLead)

		// Mutation routes (protected)
		mutations := api.Group("/")
		mutations.Use(middleware.AuthMiddleware(container.AuthService, container.Logger))
		{
			mutations.PUT("/content/:key", contentHandlers.PutContentRoot)
			mutations.PUT("/content/:key/field", contentHandlers.PutContentField)
			mutations.POST("/content/:key/toggle", contentHandlers.PostQuickToggle)

			mutations.POST("/uploads", uploadHandlers.PostUpload)
			mutations.DELETE("/uploads", uploadHandlers.DeleteUpload)

			mutations.POST("/courses", courseHandlers.PostCourse)
			mutations.PUT("/courses/:id", courseHandlers.PutCourse)
			mutations.DELETE("/courses/:id", courseHandlers.DeleteCourse)

			mutations.GET("/leads", leadHandlers.GetLeads)

			admin := mutations.Group("/admin")
			{
				admin.GET("/orphans", adminHandlers.GetOrphans)
				admin.GET("/updates", adminHandlers.GetUpdates)
			}
		}
	}

	return r
}
