// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/messaging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/performance"
)

var updateUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// cross-origin admin panels are allowed; the route itself sits behind
	// the auth middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AdminHandlers contains the admin maintenance HTTP handlers
type AdminHandlers struct {
	orphanService *services.OrphanService
	broadcaster   *messaging.UpdateBroadcaster
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(orphanService *services.OrphanService, broadcaster *messaging.UpdateBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		orphanService: orphanService,
		broadcaster:   broadcaster,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetOrphans handles GET /api/v1/admin/orphans - reports assets no content
// root or course references
func (h *AdminHandlers) GetOrphans(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_orphans_request")
	defer marker.Complete()
	h.logger.Assets().Debug("Received orphan report request", "path", c.Request.URL.Path)

	report, err := h.orphanService.CalculateOrphans()
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelAssets, "get_orphans", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate orphan report"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetOrphans request", "duration", time.Since(start), "orphans", len(report.Orphans), "success", true)

	c.JSON(http.StatusOK, report)
}

// GetUpdates handles GET /api/v1/admin/updates - upgrades to a websocket that
// streams content-update events to the admin panel
func (h *AdminHandlers) GetUpdates(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_updates_request")
	defer marker.Complete()

	conn, err := updateUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Realtime().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.Client{
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	h.broadcaster.Register(client)
	go client.WritePump()

	// the read loop only exists to detect disconnects; the panel never
	// sends application messages
	go func() {
		defer h.broadcaster.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	marker.SetSuccess(true)
}
