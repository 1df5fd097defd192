package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
)

// AuditHandler exposes the global audit trail.
type AuditHandler struct {
	journal *journal.Journal
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(j *journal.Journal) *AuditHandler {
	return &AuditHandler{journal: j}
}

// List returns the audit trail, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	list, errList := h.journal.AuditLog(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, entry := range list {
		out = append(out, gin.H{
			"id":      entry.ID,
			"action":  entry.Action,
			"details": entry.Details,
			"user":    entry.User,
			"ts":      entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"audit": out})
}
