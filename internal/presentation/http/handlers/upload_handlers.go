// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

// UploadHandlers contains the asset gateway HTTP handlers
type UploadHandlers struct {
	assetService *services.AssetService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewUploadHandlers creates upload handlers with injected dependencies
func NewUploadHandlers(assetService *services.AssetService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UploadHandlers {
	return &UploadHandlers{
		assetService: assetService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// PostUpload handles POST /api/v1/uploads?folder= - multipart asset upload
func (h *UploadHandlers) PostUpload(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_upload_request")
	defer marker.Complete()
	h.logger.Assets().Debug("Received upload request", "method", c.Request.Method, "path", c.Request.URL.Path)

	folder := c.Query("folder")
	if folder == "" {
		folder = "uploads"
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file in request"})
		return
	}
	if fileHeader.Size > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadBytes+1))
	if err != nil || int64(len(data)) > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	asset, err := h.assetService.Upload(folder, fileHeader.Filename, data)
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelAssets, "post_upload", err, map[string]any{"folder": folder})
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostUpload request", "duration", time.Since(start), "key", asset.Key, "success", true)

	c.JSON(http.StatusOK, gin.H{"url": asset.URL, "key": asset.Key})
}

// DeleteUpload handles DELETE /api/v1/uploads - removes an asset by storage key
func (h *UploadHandlers) DeleteUpload(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("delete_upload_request")
	defer marker.Complete()

	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.assetService.Delete(req.Key); err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelAssets, "delete_upload", err, map[string]any{"key": req.Key})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete asset"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for DeleteUpload request", "duration", time.Since(start), "key", req.Key, "success", true)

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "key": req.Key})
}
