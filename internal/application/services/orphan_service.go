// Package services provides the application service layer
package services

import (
	"encoding/json"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/domain/editor"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
)

// OrphanService reports stored assets referenced by no content root in any
// locale and no course: candidates for operational cleanup after missed
// best-effort deletes.
type OrphanService struct {
	contentService *ContentService
	assetService   *AssetService
	courseService  *CourseService
	logger         *logging.ChanneledLogger
}

func NewOrphanService(contentService *ContentService, assetService *AssetService, courseService *CourseService, logger *logging.ChanneledLogger) *OrphanService {
	return &OrphanService{
		contentService: contentService,
		assetService:   assetService,
		courseService:  courseService,
		logger:         logger,
	}
}

// OrphanReport lists unreferenced assets at a point in time.
type OrphanReport struct {
	Orphans     []*content.Asset `json:"orphans"`
	TotalAssets int              `json:"totalAssets"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// CalculateOrphans scans every stored content value and course for storage
// references and returns the assets nothing points at.
func (s *OrphanService) CalculateOrphans() (*OrphanReport, error) {
	start := time.Now()

	referenced, err := s.referencedKeys()
	if err != nil {
		return nil, err
	}

	assets, err := s.assetService.List()
	if err != nil {
		return nil, err
	}

	report := &OrphanReport{
		Orphans:     []*content.Asset{},
		TotalAssets: len(assets),
		GeneratedAt: time.Now().UTC(),
	}
	for _, asset := range assets {
		if _, ok := referenced[asset.Key]; !ok {
			report.Orphans = append(report.Orphans, asset)
		}
	}

	s.logger.Assets().Info("Orphan report generated",
		"totalAssets", report.TotalAssets, "orphans", len(report.Orphans), "duration", time.Since(start))
	return report, nil
}

func (s *OrphanService) referencedKeys() (map[string]struct{}, error) {
	referenced := make(map[string]struct{})

	values, err := s.contentService.AllStoredValues()
	if err != nil {
		return nil, err
	}
	for _, value := range values {
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			// plain scalar roots carry no storage references
			continue
		}
		for _, key := range editor.ExtractStorageKeys(parsed) {
			referenced[key] = struct{}{}
		}
	}

	courses, err := s.courseService.List(false)
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		if course.ImageKey != "" {
			referenced[course.ImageKey] = struct{}{}
		}
	}
	return referenced, nil
}
