package services

import (
	"context"
	"testing"

	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const svgStub = `<svg xmlns="http://www.w3.org/2000/svg"/>`

func newCourseFixture(t *testing.T) (*CourseService, *AssetService) {
	t.Helper()
	db := newTestDB(t)
	assets := newTestAssetService(t, db)
	courses := NewCourseService(persistence.NewCourseRepository(db.DB), assets, newTestLogger(t))
	return courses, assets
}

func TestCreateCourseAssignsIDAndTimestamps(t *testing.T) {
	courses, _ := newCourseFixture(t)

	course := &content.Course{Title: "Go Basics", Slug: "go-basics", Price: 49}
	require.NoError(t, courses.Create(course))

	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.Equal(t, course.CreatedAt, course.Changed)

	found, err := courses.Get(course.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Go Basics", found.Title)
}

func TestCreateCourseValidation(t *testing.T) {
	courses, _ := newCourseFixture(t)

	err := courses.Create(&content.Course{Slug: "untitled"})
	assert.ErrorIs(t, err, ErrMissingTitle)

	require.NoError(t, courses.Create(&content.Course{Title: "First", Slug: "shared"}))
	err = courses.Create(&content.Course{Title: "Second", Slug: "shared"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestListFiltersUnpublished(t *testing.T) {
	courses, _ := newCourseFixture(t)

	require.NoError(t, courses.Create(&content.Course{Title: "Live", Slug: "live", Published: true}))
	require.NoError(t, courses.Create(&content.Course{Title: "Draft", Slug: "draft"}))

	published, err := courses.List(true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "live", published[0].Slug)

	all, err := courses.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateReleasesReplacedImage(t *testing.T) {
	courses, assets := newCourseFixture(t)

	first, err := assets.Upload("courses", "cover.svg", []byte(svgStub))
	require.NoError(t, err)
	second, err := assets.Upload("courses", "cover2.svg", []byte(svgStub))
	require.NoError(t, err)

	course := &content.Course{Title: "Go Basics", Slug: "go-basics", Image: first.URL, ImageKey: first.Key}
	require.NoError(t, courses.Create(course))

	course.Image = second.URL
	course.ImageKey = second.Key
	require.NoError(t, courses.Update(context.Background(), course))

	remaining, err := assets.List()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.Key, remaining[0].Key)
}

func TestUpdateKeepsUnchangedImage(t *testing.T) {
	courses, assets := newCourseFixture(t)

	cover, err := assets.Upload("courses", "cover.svg", []byte(svgStub))
	require.NoError(t, err)

	course := &content.Course{Title: "Go Basics", Slug: "go-basics", Image: cover.URL, ImageKey: cover.Key}
	require.NoError(t, courses.Create(course))

	course.Description = "Updated copy"
	require.NoError(t, courses.Update(context.Background(), course))

	remaining, err := assets.List()
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestUpdateMissingCourse(t *testing.T) {
	courses, _ := newCourseFixture(t)

	err := courses.Update(context.Background(), &content.Course{ID: "nope", Title: "X", Slug: "x"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDeleteCourseReleasesImage(t *testing.T) {
	courses, assets := newCourseFixture(t)

	cover, err := assets.Upload("courses", "cover.svg", []byte(svgStub))
	require.NoError(t, err)

	course := &content.Course{Title: "Go Basics", Slug: "go-basics", Image: cover.URL, ImageKey: cover.Key}
	require.NoError(t, courses.Create(course))
	require.NoError(t, courses.Delete(context.Background(), course.ID))

	gone, err := courses.Get(course.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	remaining, err := assets.List()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
