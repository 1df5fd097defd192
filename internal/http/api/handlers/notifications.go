package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
)

// NotificationHandler exposes the notification feed endpoints.
type NotificationHandler struct {
	journal *journal.Journal
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(j *journal.Journal) *NotificationHandler {
	return &NotificationHandler{journal: j}
}

// List returns the feed, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	list, errList := h.journal.Notifications(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, n := range list {
		out = append(out, gin.H{
			"id":        n.ID,
			"type":      n.Type,
			"title":     n.Title,
			"desc":      n.Desc,
			"tag":       n.Tag,
			"extra":     n.Extra,
			"officer":   n.Officer,
			"unread":    n.Unread,
			"createdAt": n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

// UnreadCount returns the number of unread notifications.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, errCount := h.journal.UnreadCount(c.Request.Context())
	if errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead clears the unread flag on one notification.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if errMark := h.journal.MarkRead(c.Request.Context(), id); errMark != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllRead clears the unread flag on the whole feed.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if errMark := h.journal.MarkAllRead(c.Request.Context()); errMark != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
