// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/email"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/media"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/messaging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
	persistenceContent "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/database"
	persistenceUser "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/user"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	AuthService    *services.AuthService
	ContentService *services.ContentService
	AssetService   *services.AssetService
	CourseService  *services.CourseService
	LeadService    *services.LeadService
	OrphanService  *services.OrphanService

	// Infrastructure Dependencies
	DB          *database.DB
	Broadcaster *messaging.UpdateBroadcaster
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) *Container {
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	broadcaster := messaging.NewUpdateBroadcaster(logger)

	contentRepo := persistenceContent.NewContentRepository(db.DB)
	assetRepo := persistenceContent.NewAssetRepository(db.DB)
	courseRepo := persistenceContent.NewCourseRepository(db.DB)
	leadRepo := persistenceUser.NewLeadRepository(db.DB)

	assetStore := media.NewAssetStore(config.MediaDir, config.MediaBaseURL)

	// Mail is optional; without a Resend key leads are still captured,
	// only the notification email is skipped.
	mailer, err := email.NewService()
	if err != nil {
		logger.Mail().Warn("Email service disabled", "reason", err.Error())
		mailer = nil
	}

	authService := services.NewAuthService(logger)
	contentService := services.NewContentService(contentRepo, broadcaster, logger)
	assetService := services.NewAssetService(assetRepo, assetStore, logger)
	courseService := services.NewCourseService(courseRepo, assetService, logger)
	leadService := services.NewLeadService(leadRepo, mailer, logger)
	orphanService := services.NewOrphanService(contentService, assetService, courseService, logger)

	return &Container{
		AuthService:    authService,
		ContentService: contentService,
		AssetService:   assetService,
		CourseService:  courseService,
		LeadService:    leadService,
		OrphanService:  orphanService,

		DB:          db,
		Broadcaster: broadcaster,
		Logger:      logger,
		PerfTracker: perfTracker,
	}
}
