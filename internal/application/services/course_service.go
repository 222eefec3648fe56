// Package services provides the application service layer
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/domain/editor"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/security"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrSlugTaken      = errors.New("course slug already in use")
	ErrMissingTitle   = errors.New("course title is required")
)

// CourseService manages the course catalog. Course images go through the
// asset gateway; superseded or abandoned images are released the same way
// editor items release theirs.
type CourseService struct {
	repo   *persistence.CourseRepository
	assets *AssetService
	logger *logging.ChanneledLogger
}

func NewCourseService(repo *persistence.CourseRepository, assets *AssetService, logger *logging.ChanneledLogger) *CourseService {
	return &CourseService{
		repo:   repo,
		assets: assets,
		logger: logger,
	}
}

func (s *CourseService) List(publishedOnly bool) ([]*content.Course, error) {
	return s.repo.FindAll(publishedOnly)
}

func (s *CourseService) Get(id string) (*content.Course, error) {
	return s.repo.FindByID(id)
}

func (s *CourseService) GetBySlug(slug string) (*content.Course, error) {
	return s.repo.FindBySlug(slug)
}

func (s *CourseService) Create(course *content.Course) error {
	if course.Title == "" {
		return ErrMissingTitle
	}
	if course.Slug == "" {
		return fmt.Errorf("course slug is required")
	}
	existing, err := s.repo.FindBySlug(course.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSlugTaken
	}

	course.ID = security.GenerateULID()
	course.CreatedAt = time.Now().UTC()
	course.Changed = course.CreatedAt
	if err := s.repo.Store(course); err != nil {
		return err
	}

	s.logger.Content().Info("Course created", "id", course.ID, "slug", course.Slug)
	return nil
}

// Update replaces a course. An image reference that changed or was cleared
// releases the previous asset.
func (s *CourseService) Update(ctx context.Context, course *content.Course) error {
	existing, err := s.repo.FindByID(course.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	if course.Slug != existing.Slug {
		taken, err := s.repo.FindBySlug(course.Slug)
		if err != nil {
			return err
		}
		if taken != nil {
			return ErrSlugTaken
		}
	}

	course.CreatedAt = existing.CreatedAt
	course.Changed = time.Now().UTC()
	if err := s.repo.Update(course); err != nil {
		return err
	}

	if existing.ImageKey != "" && (course.ImageKey != existing.ImageKey || course.Image == "") {
		s.releaseAssets(ctx, []string{existing.ImageKey})
	}

	s.logger.Content().Info("Course updated", "id", course.ID, "slug", course.Slug)
	return nil
}

// Delete removes a course and every asset it references.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	course, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}

	keys := editor.ExtractStorageKeys(map[string]any{
		"image":     course.Image,
		"image_key": course.ImageKey,
	})
	s.releaseAssets(ctx, keys)

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Content().Info("Course deleted", "id", id, "slug", course.Slug)
	return nil
}

// releaseAssets is best-effort cleanup; failures are logged and never block
// the catalog operation.
func (s *CourseService) releaseAssets(ctx context.Context, keys []string) {
	if s.assets == nil {
		return
	}
	for _, key := range keys {
		if err := s.assets.RemoveAsset(ctx, key); err != nil {
			s.logger.Assets().Warn("Course asset cleanup failed", "key", key, "error", err.Error())
		}
	}
}
