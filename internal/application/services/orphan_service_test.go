package services

import (
	"testing"

	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrphanFixture(t *testing.T) (*OrphanService, *ContentService, *CourseService, *AssetService) {
	t.Helper()
	db := newTestDB(t)
	logger := newTestLogger(t)

	assets := newTestAssetService(t, db)
	contents := NewContentService(persistence.NewContentRepository(db.DB), nil, logger)
	courses := NewCourseService(persistence.NewCourseRepository(db.DB), assets, logger)
	orphans := NewOrphanService(contents, assets, courses, logger)
	return orphans, contents, courses, assets
}

func TestOrphanReportFindsUnreferencedAssets(t *testing.T) {
	orphans, contents, _, assets := newOrphanFixture(t)

	referenced, err := assets.Upload("global", "logo.svg", []byte(svgStub))
	require.NoError(t, err)
	stray, err := assets.Upload("global", "old-logo.svg", []byte(svgStub))
	require.NoError(t, err)

	_, err = contents.UpdateRoot("global", "en", map[string]any{
		"logo":     referenced.URL,
		"logo_key": referenced.Key,
	})
	require.NoError(t, err)

	report, err := orphans.CalculateOrphans()
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalAssets)
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, stray.Key, report.Orphans[0].Key)
}

func TestOrphanReportScansEveryLocale(t *testing.T) {
	orphans, contents, _, assets := newOrphanFixture(t)

	frOnly, err := assets.Upload("global", "logo-fr.svg", []byte(svgStub))
	require.NoError(t, err)

	_, err = contents.UpdateRoot("global", "fr", map[string]any{
		"logo":     frOnly.URL,
		"logo_key": frOnly.Key,
	})
	require.NoError(t, err)

	report, err := orphans.CalculateOrphans()
	require.NoError(t, err)
	assert.Empty(t, report.Orphans)
}

func TestOrphanReportSparesCourseImages(t *testing.T) {
	orphans, _, courses, assets := newOrphanFixture(t)

	cover, err := assets.Upload("courses", "cover.svg", []byte(svgStub))
	require.NoError(t, err)

	course := &content.Course{Title: "Go Basics", Slug: "go-basics", Image: cover.URL, ImageKey: cover.Key}
	require.NoError(t, courses.Create(course))

	report, err := orphans.CalculateOrphans()
	require.NoError(t, err)
	assert.Empty(t, report.Orphans)
}

func TestOrphanReportIgnoresScalarRoots(t *testing.T) {
	orphans, contents, _, assets := newOrphanFixture(t)

	stray, err := assets.Upload("global", "unused.svg", []byte(svgStub))
	require.NoError(t, err)

	_, err = contents.UpdateRoot("site_name", "en", "Plain Text Site")
	require.NoError(t, err)

	report, err := orphans.CalculateOrphans()
	require.NoError(t, err)
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, stray.Key, report.Orphans[0].Key)
}

func TestDeleteAssetIsIdempotent(t *testing.T) {
	_, _, _, assets := newOrphanFixture(t)

	uploaded, err := assets.Upload("global", "logo.svg", []byte(svgStub))
	require.NoError(t, err)

	require.NoError(t, assets.Delete(uploaded.Key))
	require.NoError(t, assets.Delete(uploaded.Key))

	remaining, err := assets.List()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestUploadRejectsBadFolder(t *testing.T) {
	_, _, _, assets := newOrphanFixture(t)

	_, err := assets.Upload("../escape", "x.svg", []byte(svgStub))
	require.Error(t, err)

	_, err = assets.Upload("Upper", "x.svg", []byte(svgStub))
	require.Error(t, err)
}
