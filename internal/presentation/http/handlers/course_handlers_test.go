package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/database"
	"github.com/sitedeck/sitedeck-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseRouter(t *testing.T) (*gin.Engine, *services.CourseService, *services.AuthService) {
	t.Helper()
	logger := newTestLogger(t)

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewTableCreator().CreateSchema(db.DB))

	courseService := services.NewCourseService(persistence.NewCourseRepository(db.DB), nil, logger)
	authService := services.NewAuthService(logger)
	h := NewCourseHandlers(courseService, authService, logger, newTestTracker())

	r := gin.New()
	r.GET("/api/v1/courses", h.GetCourses)
	r.GET("/api/v1/courses/:id", h.GetCourse)
	r.POST("/api/v1/courses", h.PostCourse)
	r.PUT("/api/v1/courses/:id", h.PutCourse)
	r.DELETE("/api/v1/courses/:id", h.DeleteCourse)
	return r, courseService, authService
}

func seedCourses(t *testing.T, courseService *services.CourseService) {
	t.Helper()
	require.NoError(t, courseService.Create(&content.Course{Title: "Live", Slug: "live", Published: true}))
	require.NoError(t, courseService.Create(&content.Course{Title: "Draft", Slug: "draft"}))
}

func listCourses(t *testing.T, r *gin.Engine, path, token string) []content.Course {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var courses []content.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	return courses
}

func TestGetCoursesHidesDraftsFromVisitors(t *testing.T) {
	setTestCredentials(t)
	r, courseService, _ := newCourseRouter(t)
	seedCourses(t, courseService)

	courses := listCourses(t, r, "/api/v1/courses", "")
	require.Len(t, courses, 1)
	assert.Equal(t, "live", courses[0].Slug)

	// all=true without credentials is ignored, not an error
	courses = listCourses(t, r, "/api/v1/courses?all=true", "")
	assert.Len(t, courses, 1)
}

func TestGetCoursesShowsDraftsToAdmin(t *testing.T) {
	setTestCredentials(t)
	r, courseService, authService := newCourseRouter(t)
	seedCourses(t, courseService)

	tokens, err := authService.Login(config.AdminEmail, config.AdminPassword)
	require.NoError(t, err)

	courses := listCourses(t, r, "/api/v1/courses?all=true", tokens.AccessToken)
	assert.Len(t, courses, 2)
}

func TestPostCourseMapsServiceErrors(t *testing.T) {
	setTestCredentials(t)
	r, courseService, _ := newCourseRouter(t)
	seedCourses(t, courseService)

	body := `{"title":"Other","slug":"live"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	body = `{"slug":"untitled"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/courses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseNotFoundMapsTo404(t *testing.T) {
	setTestCredentials(t)
	r, _, _ := newCourseRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/courses/missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
