package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/devices"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/refdata"
)

// DashboardHandler serves the aggregate views behind the dashboard charts
// and sidebar badges.
type DashboardHandler struct {
	svc     *devices.Service
	journal *journal.Journal
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc *devices.Service, j *journal.Journal) *DashboardHandler {
	return &DashboardHandler{svc: svc, journal: j}
}

// Summary returns status counts, badge counts and the regime distribution.
func (h *DashboardHandler) Summary(c *gin.Context) {
	list, errList := h.svc.List(c.Request.Context(), devices.ListFilter{})
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var retrieved, delayed, awaiting, unconfirmed int
	regimeCounts := map[string]int{}
	for _, d := range list {
		regimeCounts[d.Regime]++
		switch {
		case d.Status == models.StatusRetrieved:
			retrieved++
		case d.IsDelayed:
			delayed++
		default:
			if d.FieldConfirmed {
				awaiting++
			}
		}
		if !d.FieldConfirmed && d.Status != models.StatusRetrieved {
			unconfirmed++
		}
	}
	unread, errUnread := h.journal.UnreadCount(c.Request.Context())
	if errUnread != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	regimes := make([]gin.H, 0, len(refdata.Regimes))
	for _, regime := range refdata.Regimes {
		regimes = append(regimes, gin.H{
			"regime": regime,
			"count":  regimeCounts[regime],
			"color":  refdata.RegimeColors[regime],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total":       len(list),
		"retrieved":   retrieved,
		"delayed":     delayed,
		"awaiting":    awaiting,
		"unconfirmed": unconfirmed,
		"unread":      unread,
		"regimes":     regimes,
		"reference":   isoDate(h.svc.Reference()),
	})
}

// Monthly returns the six-month retrieved/delayed series ending at the
// reference date, keyed by issue month.
func (h *DashboardHandler) Monthly(c *gin.Context) {
	list, errList := h.svc.List(c.Request.Context(), devices.ListFilter{})
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	reference := h.svc.Reference()

	months := make([]gin.H, 0, 6)
	for i := 5; i >= 0; i-- {
		month := reference.AddDate(0, -i, 0)
		key := month.Format("2006-01")
		var retrieved, delayed int
		for _, d := range list {
			if d.Issued.Format("2006-01") != key {
				continue
			}
			if d.Status == models.StatusRetrieved {
				retrieved++
			}
			if d.IsDelayed {
				delayed++
			}
		}
		months = append(months, gin.H{
			"month":     key,
			"label":     month.Format("Jan"),
			"retrieved": retrieved,
			"delayed":   delayed,
		})
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// RefData returns the static lookup tables the dashboard forms use.
func (h *DashboardHandler) RefData(c *gin.Context) {
	officers := make([]gin.H, 0, len(refdata.Officers))
	for _, o := range refdata.Officers {
		officers = append(officers, gin.H{
			"name":     o.Name,
			"phone":    o.Phone,
			"color":    o.Color,
			"initials": o.Initials,
			"username": o.Username,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"officers":     officers,
		"agencies":     refdata.Agencies,
		"destinations": refdata.Destinations,
		"regimes":      refdata.Regimes,
		"regimeColors": refdata.RegimeColors,
	})
}
