// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
)

// CourseHandlers contains the course catalog HTTP handlers
type CourseHandlers struct {
	courseService *services.CourseService
	authService   *services.AuthService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewCourseHandlers creates course handlers with injected dependencies
func NewCourseHandlers(courseService *services.CourseService, authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CourseHandlers {
	return &CourseHandlers{
		courseService: courseService,
		authService:   authService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetCourses handles GET /api/v1/courses - published catalog for visitors,
// everything for authenticated admins (?all=true)
func (h *CourseHandlers) GetCourses(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_courses_request")
	defer marker.Complete()

	// only an authenticated admin sees unpublished drafts
	publishedOnly := true
	if c.Query("all") == "true" && h.callerIsAdmin(c) {
		publishedOnly = false
	}
	courses, err := h.courseService.List(publishedOnly)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}
	if courses == nil {
		courses = []*content.Course{}
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetCourses request", "duration", time.Since(start), "count", len(courses), "success", true)

	c.JSON(http.StatusOK, courses)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandlers) GetCourse(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_course_request")
	defer marker.Complete()

	course, err := h.courseService.Get(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course"})
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, course)
}

// PostCourse handles POST /api/v1/courses - creates a course
func (h *CourseHandlers) PostCourse(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_course_request")
	defer marker.Complete()
	h.logger.Content().Debug("Received course create request", "path", c.Request.URL.Path)

	var course content.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.courseService.Create(&course); err != nil {
		h.respondCourseError(c, marker, err, "post_course")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostCourse request", "duration", time.Since(start), "id", course.ID, "success", true)

	c.JSON(http.StatusCreated, course)
}

// PutCourse handles PUT /api/v1/courses/:id - replaces a course
func (h *CourseHandlers) PutCourse(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("put_course_request")
	defer marker.Complete()

	var course content.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	course.ID = c.Param("id")

	if err := h.courseService.Update(c.Request.Context(), &course); err != nil {
		h.respondCourseError(c, marker, err, "put_course")
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PutCourse request", "duration", time.Since(start), "id", course.ID, "success", true)

	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id
func (h *CourseHandlers) DeleteCourse(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_course_request")
	defer marker.Complete()

	id := c.Param("id")
	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.respondCourseError(c, marker, err, "delete_course")
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

func (h *CourseHandlers) callerIsAdmin(c *gin.Context) bool {
	token := c.GetHeader("Authorization")
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	} else {
		token, _ = c.Cookie("access_token")
	}
	if token == "" {
		return false
	}
	_, err := h.authService.ValidateAccess(token)
	return err == nil
}

func (h *CourseHandlers) respondCourseError(c *gin.Context, marker *performance.Marker, err error, operation string) {
	switch {
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
	case errors.Is(err, services.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
	case errors.Is(err, services.ErrMissingTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		marker.SetError(err)
		h.logger.LogError(logging.ChannelContent, operation, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Course operation failed"})
	}
}
