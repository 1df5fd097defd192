package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/refdata"
)

// SMSHandler exposes the SMS log endpoints. Messages are logged, never
// delivered.
type SMSHandler struct {
	journal *journal.Journal
}

// NewSMSHandler constructs a SMSHandler.
func NewSMSHandler(j *journal.Journal) *SMSHandler {
	return &SMSHandler{journal: j}
}

// List returns the SMS log, newest first.
func (h *SMSHandler) List(c *gin.Context) {
	list, errList := h.journal.SMSLog(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, entry := range list {
		out = append(out, gin.H{
			"id":        entry.ID,
			"recipient": entry.Recipient,
			"phone":     entry.Phone,
			"message":   entry.Message,
			"deviceId":  entry.DeviceID,
			"sentAt":    entry.SentAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sms": out})
}

// sendSMSRequest defines the request body for logging a manual SMS.
type sendSMSRequest struct {
	Officer  string `json:"officer"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	DeviceID string `json:"deviceId"`
}

// Send logs an outbound SMS. The officer's phone is looked up when only the
// name is supplied.
func (h *SMSHandler) Send(c *gin.Context) {
	var body sendSMSRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	message := strings.TrimSpace(body.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing message"})
		return
	}
	recipient := strings.TrimSpace(body.Officer)
	phone := strings.TrimSpace(body.Phone)
	if phone == "" && recipient != "" {
		if officer, ok := refdata.OfficerByName(recipient); ok {
			phone = officer.Phone
		}
	}
	if recipient == "" && phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing recipient"})
		return
	}

	entry, errAdd := h.journal.AddSMS(c.Request.Context(), models.SMSEntry{
		Recipient: recipient,
		Phone:     phone,
		Message:   message,
		DeviceID:  strings.TrimSpace(body.DeviceID),
	})
	if errAdd != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "log failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": entry.ID, "sentAt": entry.SentAt.UTC().Format(time.RFC3339)})
}
