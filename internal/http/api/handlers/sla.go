package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/devices"
)

// SLAHandler exposes the SLA configuration endpoints.
type SLAHandler struct {
	svc *devices.Service
}

// NewSLAHandler constructs a SLAHandler.
func NewSLAHandler(svc *devices.Service) *SLAHandler {
	return &SLAHandler{svc: svc}
}

// Get returns the active SLA configuration.
func (h *SLAHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SLAConfig(c.Request.Context()))
}

// updateSLARequest defines the request body for SLA updates.
type updateSLARequest struct {
	Thresholds  map[string]int `json:"thresholds"`
	AlertDays   int            `json:"alertDays"`
	AlertActive bool           `json:"alertActive"`
}

// Update replaces the SLA configuration and re-evaluates the fleet against
// the new thresholds.
func (h *SLAHandler) Update(c *gin.Context) {
	var body updateSLARequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Thresholds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing thresholds"})
		return
	}
	for regime, threshold := range body.Thresholds {
		if threshold < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "negative threshold for " + regime})
			return
		}
	}
	if body.AlertDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "negative alertDays"})
		return
	}

	cfg := h.svc.SLAConfig(c.Request.Context())
	cfg.Thresholds = body.Thresholds
	cfg.AlertDays = body.AlertDays
	cfg.AlertActive = body.AlertActive

	if errSet := h.svc.SetSLAConfig(c.Request.Context(), cfg, actorName(c)); errSet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
