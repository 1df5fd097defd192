// Package access gates dashboard pages by role. The permission table is a
// fixed role to page-id mapping with exact-match membership only; there is no
// wildcard or inheritance semantics.
package access

import "github.com/retrievaltrack/retrievaltrack/internal/models"

// Page identifiers gated by the permission table.
const (
	PageDashboard     = "dashboard"
	PageIssue         = "issue"
	PageOfficer       = "officer"
	PageFieldConfirm  = "fieldconfirm"
	PageRetrieval     = "retrieval"
	PageDelayed       = "delayed"
	PageTimeline      = "timeline"
	PageReports       = "reports"
	PageAnalytics     = "analytics"
	PagePerformance   = "performance"
	PageRoles         = "roles"
	PageSLA           = "sla"
	PageBulkImport    = "bulkimport"
	PageSMS           = "sms"
	PageMapView       = "mapview"
	PageNotifications = "notifications"
)

// rolePages maps each role to its permitted page ids.
var rolePages = map[string][]string{
	models.RoleAdministrator: {
		PageDashboard, PageIssue, PageOfficer, PageFieldConfirm, PageRetrieval,
		PageDelayed, PageTimeline, PageReports, PageAnalytics, PagePerformance,
		PageRoles, PageSLA, PageBulkImport, PageSMS, PageMapView, PageNotifications,
	},
	models.RoleSupervisor: {
		PageDashboard, PageIssue, PageOfficer, PageFieldConfirm, PageRetrieval,
		PageDelayed, PageTimeline, PageReports, PageAnalytics, PagePerformance,
		PageNotifications,
	},
	models.RoleFieldOfficer: {
		PageDashboard, PageFieldConfirm, PageTimeline, PageNotifications,
	},
	models.RoleRetrievalOfficer: {
		PageDashboard, PageRetrieval, PageDelayed, PageTimeline, PageNotifications,
	},
}

// CanAccess reports whether a role may open a page. An empty or unknown role
// has no pages, which covers the missing-session case.
func CanAccess(role, pageID string) bool {
	for _, p := range rolePages[role] {
		if p == pageID {
			return true
		}
	}
	return false
}

// PagesForRole returns a copy of the permitted page ids for a role.
func PagesForRole(role string) []string {
	pages := rolePages[role]
	out := make([]string, len(pages))
	copy(out, pages)
	return out
}

// Roles returns the roles present in the permission table.
func Roles() []string {
	return []string{
		models.RoleAdministrator,
		models.RoleSupervisor,
		models.RoleFieldOfficer,
		models.RoleRetrievalOfficer,
	}
}
