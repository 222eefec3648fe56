// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/domain/user"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
)

// LeadHandlers contains the contact-form HTTP handlers
type LeadHandlers struct {
	leadService *services.LeadService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLeadHandlers creates lead handlers with injected dependencies
func NewLeadHandlers(leadService *services.LeadService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LeadHandlers {
	return &LeadHandlers{
		leadService: leadService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostLead handles POST /api/v1/leads - public contact-form submission
func (h *LeadHandlers) PostLead(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_lead_request")
	defer marker.Complete()
	h.logger.Content().Debug("Received lead submission", "path", c.Request.URL.Path)

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
		Source  string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	lead, err := h.leadService.Capture(req.Name, req.Email, req.Message, req.Source)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLead) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		marker.SetError(err)
		h.logger.LogError(logging.ChannelContent, "post_lead", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store lead"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostLead request", "duration", time.Since(start), "id", lead.ID, "success", true)

	c.JSON(http.StatusCreated, gin.H{"status": "received", "id": lead.ID})
}

// GetLeads handles GET /api/v1/leads - admin-only listing
func (h *LeadHandlers) GetLeads(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_leads_request")
	defer marker.Complete()

	leads, err := h.leadService.List()
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelContent, "get_leads", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leads"})
		return
	}
	if leads == nil {
		leads = []*user.Lead{}
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, leads)
}
