package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/db"
	"github.com/retrievaltrack/retrievaltrack/internal/devices"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/refdata"
	"gorm.io/gorm"
)

// DeviceHandler exposes the device lifecycle endpoints.
type DeviceHandler struct {
	db  *gorm.DB
	svc *devices.Service
}

// NewDeviceHandler constructs a DeviceHandler.
func NewDeviceHandler(conn *gorm.DB, svc *devices.Service) *DeviceHandler {
	return &DeviceHandler{db: conn, svc: svc}
}

// List returns devices, optionally filtered by status/regime/flags or a
// case-insensitive search over id and agency.
func (h *DeviceHandler) List(c *gin.Context) {
	filter := devices.ListFilter{
		Status:      strings.TrimSpace(c.Query("status")),
		Regime:      strings.TrimSpace(c.Query("regime")),
		DelayedOnly: c.Query("delayed") == "1",
		Unconfirmed: c.Query("unconfirmed") == "1",
	}
	list, errList := h.svc.List(c.Request.Context(), filter)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+q+"%")
		var matched []models.Device
		if errSearch := h.db.WithContext(c.Request.Context()).
			Where(db.CaseInsensitiveLikeExpr(h.db, "id"), pattern).
			Or(db.CaseInsensitiveLikeExpr(h.db, "agency"), pattern).
			Find(&matched).Error; errSearch != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		matchedIDs := make(map[string]bool, len(matched))
		for _, d := range matched {
			matchedIDs[d.ID] = true
		}
		filtered := list[:0]
		for _, d := range list {
			if matchedIDs[d.ID] {
				filtered = append(filtered, d)
			}
		}
		list = filtered
	}

	out := make([]gin.H, 0, len(list))
	for _, d := range list {
		out = append(out, deviceJSON(d))
	}
	c.JSON(http.StatusOK, gin.H{"devices": out})
}

// Get returns one device with its audit trail.
func (h *DeviceHandler) Get(c *gin.Context) {
	d, errGet := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errGet != nil {
		if errors.Is(errGet, devices.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, deviceJSON(d))
}

// issueRequest defines the request body for issuing a device.
type issueRequest struct {
	ID         string `json:"id"`
	Regime     string `json:"regime"`
	Agency     string `json:"agency"`
	Dest       string `json:"dest"`
	ReturnDays int    `json:"returnDays"`
}

// Issue creates a device and its issuance record.
func (h *DeviceHandler) Issue(c *gin.Context) {
	var body issueRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.Agency) == "" || strings.TrimSpace(body.Dest) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing agency or dest"})
		return
	}
	if !refdata.KnownRegime(body.Regime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown regime"})
		return
	}
	if body.ReturnDays <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "returnDays must be positive"})
		return
	}

	d, errIssue := h.svc.Issue(c.Request.Context(), devices.IssueParams{
		ID:         body.ID,
		Regime:     body.Regime,
		Agency:     strings.TrimSpace(body.Agency),
		Dest:       strings.TrimSpace(body.Dest),
		ReturnDays: body.ReturnDays,
		IssuedBy:   actorName(c),
	})
	if errIssue != nil {
		if errors.Is(errIssue, devices.ErrExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "device already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue failed"})
		return
	}
	c.JSON(http.StatusCreated, deviceJSON(d))
}

// officerRequest names the acting officer for confirm/retrieve.
type officerRequest struct {
	Officer string `json:"officer"`
}

// officerOrSession resolves the acting officer from the body, defaulting to
// the session user.
func officerOrSession(c *gin.Context) (string, bool) {
	var body officerRequest
	if errBind := c.ShouldBindJSON(&body); errBind == nil {
		if name := strings.TrimSpace(body.Officer); name != "" {
			return name, true
		}
	}
	if session := SessionFrom(c); session != nil {
		return session.Name, true
	}
	return "", false
}

// Confirm records field confirmation of a device.
func (h *DeviceHandler) Confirm(c *gin.Context) {
	officer, ok := officerOrSession(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing officer"})
		return
	}
	d, errConfirm := h.svc.Confirm(c.Request.Context(), c.Param("id"), officer)
	if errConfirm != nil {
		h.lifecycleError(c, errConfirm)
		return
	}
	c.JSON(http.StatusOK, deviceJSON(d))
}

// Retrieve marks a device collected. Terminal.
func (h *DeviceHandler) Retrieve(c *gin.Context) {
	officer, ok := officerOrSession(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing officer"})
		return
	}
	d, errRetrieve := h.svc.Retrieve(c.Request.Context(), c.Param("id"), officer)
	if errRetrieve != nil {
		h.lifecycleError(c, errRetrieve)
		return
	}
	c.JSON(http.StatusOK, deviceJSON(d))
}

// ReEvaluate recomputes every device's delay state against the reference
// date and current SLA rules.
func (h *DeviceHandler) ReEvaluate(c *gin.Context) {
	list, errEval := h.svc.ReEvaluateAll(c.Request.Context())
	if errEval != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "re-evaluation failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, d := range list {
		out = append(out, deviceJSON(d))
	}
	c.JSON(http.StatusOK, gin.H{"devices": out, "reference": isoDate(h.svc.Reference())})
}

// AlertSweep emits upcoming/overdue notifications per the alert settings.
func (h *DeviceHandler) AlertSweep(c *gin.Context) {
	summary, errSweep := h.svc.AlertSweep(c.Request.Context())
	if errSweep != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "alert sweep failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// lifecycleError maps service errors to HTTP responses.
func (h *DeviceHandler) lifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, devices.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
	case errors.Is(err, devices.ErrAlreadyRetrieved):
		c.JSON(http.StatusConflict, gin.H{"error": "device already retrieved"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

// Issuances lists issuance records, newest first.
func (h *DeviceHandler) Issuances(c *gin.Context) {
	list, errList := h.svc.Issuances(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, rec := range list {
		out = append(out, gin.H{
			"id":        rec.ID,
			"deviceId":  rec.DeviceID,
			"regime":    rec.Regime,
			"agency":    rec.Agency,
			"dest":      rec.Dest,
			"issuedBy":  rec.IssuedBy,
			"createdAt": rec.CreatedAt.UTC(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"issuances": out})
}
