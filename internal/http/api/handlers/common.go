// Package handlers implements the dashboard JSON API endpoints.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/security"
)

// SessionKey is the gin context key holding the session claims.
const SessionKey = "session"

// SessionFrom returns the session claims set by the auth middleware, or nil.
func SessionFrom(c *gin.Context) *security.SessionClaims {
	value, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*security.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorName returns the session user's display name, or "System".
func actorName(c *gin.Context) string {
	if session := SessionFrom(c); session != nil {
		return session.Name
	}
	return "System"
}

// isoDate formats a time as YYYY-MM-DD.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// deviceJSON projects a device for API responses.
func deviceJSON(d models.Device) gin.H {
	out := gin.H{
		"id":               d.ID,
		"regime":           d.Regime,
		"agency":           d.Agency,
		"dest":             d.Dest,
		"issued":           isoDate(d.Issued),
		"expectedReturn":   isoDate(d.ExpectedReturn),
		"fieldConfirmed":   d.FieldConfirmed,
		"fieldConfirmedBy": d.FieldConfirmedBy,
		"status":           d.Status,
		"daysOverdue":      d.DaysOverdue,
		"isDelayed":        d.IsDelayed,
		"retrievalOfficer": d.RetrievalOfficer,
		"auditLog":         d.TrailEntries(),
		"createdAt":        d.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.RetrievalTime != nil {
		out["retrievalTime"] = d.RetrievalTime.UTC().Format(time.RFC3339)
	} else {
		out["retrievalTime"] = nil
	}
	return out
}

// userJSON projects a user for API responses. The password hash never leaves
// the server.
func userJSON(u models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"name":      u.Name,
		"role":      u.Role,
		"phone":     u.Phone,
		"color":     u.Color,
		"active":    u.Active,
		"createdAt": u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
