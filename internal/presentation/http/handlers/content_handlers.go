// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
)

// ContentHandlers contains all content-map HTTP handlers
type ContentHandlers struct {
	contentService *services.ContentService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewContentHandlers creates content handlers with injected dependencies
func NewContentHandlers(contentService *services.ContentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContentHandlers {
	return &ContentHandlers{
		contentService: contentService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetContentMap handles GET /api/v1/content - the full content map for a locale
func (h *ContentHandlers) GetContentMap(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_content_map_request")
	defer marker.Complete()
	h.logger.Content().Debug("Received content map request", "method", c.Request.Method, "path", c.Request.URL.Path)

	contentMap, err := h.contentService.GetContentMap(c.Query("lang"))
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelContent, "get_content_map", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load content"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetContentMap request", "duration", time.Since(start), "roots", len(contentMap), "success", true)

	c.JSON(http.StatusOK, contentMap)
}

// GetContentRoot handles GET /api/v1/content/:key - one root value
func (h *ContentHandlers) GetContentRoot(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_content_root_request")
	defer marker.Complete()

	key := c.Param("key")
	entry, err := h.contentService.GetRoot(key, c.Query("lang"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load content"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content root not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, entry)
}

// PutContentRoot handles PUT /api/v1/content/:key - replaces a whole root value
func (h *ContentHandlers) PutContentRoot(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("put_content_root_request")
	defer marker.Complete()
	key := c.Param("key")
	h.logger.Content().Debug("Received content update request", "key", key, "path", c.Request.URL.Path)

	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value"})
		return
	}

	if _, err := h.contentService.UpdateRoot(key, c.Query("lang"), value); err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelContent, "put_content_root", err, map[string]any{"key": key})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save content"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PutContentRoot request", "duration", time.Since(start), "key", key, "success", true)

	c.JSON(http.StatusOK, gin.H{"status": "saved", "key": key})
}

// PutContentField handles PUT /api/v1/content/:key/field - one dotted field,
// persisted through the root-granular router
func (h *ContentHandlers) PutContentField(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("put_content_field_request")
	defer marker.Complete()
	key := c.Param("key")

	var req struct {
		Field string          `json:"field" binding:"required"`
		Value json.RawMessage `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var value any
	if len(req.Value) > 0 {
		if err := json.Unmarshal(req.Value, &value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value"})
			return
		}
	}

	dotted := key + "." + req.Field
	if err := h.contentService.UpdateField(c.Request.Context(), dotted, c.Query("lang"), value); err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelContent, "put_content_field", err, map[string]any{"key": dotted})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save content"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PutContentField request", "duration", time.Since(start), "key", dotted, "success", true)

	c.JSON(http.StatusOK, gin.H{"status": "saved", "key": dotted})
}

// PostQuickToggle handles POST /api/v1/content/:key/toggle - flips one
// boolean field without an edit session
func (h *ContentHandlers) PostQuickToggle(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_quick_toggle_request")
	defer marker.Complete()
	key := c.Param("key")

	var req struct {
		Field string `json:"field" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	value, err := h.contentService.QuickToggle(c.Request.Context(), key+"."+req.Field, c.Query("lang"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle field"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"key": key, "field": req.Field, "value": value})
}
