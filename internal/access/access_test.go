package access

import (
	"testing"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
)

func TestAdministratorOpensEveryPage(t *testing.T) {
	pages := []string{
		PageDashboard, PageIssue, PageOfficer, PageFieldConfirm, PageRetrieval,
		PageDelayed, PageTimeline, PageReports, PageAnalytics, PagePerformance,
		PageRoles, PageSLA, PageBulkImport, PageSMS, PageMapView, PageNotifications,
	}
	for _, page := range pages {
		if !CanAccess(models.RoleAdministrator, page) {
			t.Fatalf("administrator denied %s", page)
		}
	}
}

func TestSupervisorLacksAdminPages(t *testing.T) {
	for _, page := range []string{PageRoles, PageSLA, PageBulkImport, PageSMS, PageMapView} {
		if CanAccess(models.RoleSupervisor, page) {
			t.Fatalf("supervisor allowed %s", page)
		}
	}
	for _, page := range []string{PageDashboard, PageIssue, PageReports, PageAnalytics, PageNotifications} {
		if !CanAccess(models.RoleSupervisor, page) {
			t.Fatalf("supervisor denied %s", page)
		}
	}
}

func TestFieldOfficerPages(t *testing.T) {
	allowed := map[string]bool{
		PageDashboard:     true,
		PageFieldConfirm:  true,
		PageTimeline:      true,
		PageNotifications: true,
	}
	for _, page := range PagesForRole(models.RoleAdministrator) {
		if got := CanAccess(models.RoleFieldOfficer, page); got != allowed[page] {
			t.Fatalf("field officer access to %s = %v, want %v", page, got, allowed[page])
		}
	}
}

func TestRetrievalOfficerPages(t *testing.T) {
	allowed := map[string]bool{
		PageDashboard:     true,
		PageRetrieval:     true,
		PageDelayed:       true,
		PageTimeline:      true,
		PageNotifications: true,
	}
	for _, page := range PagesForRole(models.RoleAdministrator) {
		if got := CanAccess(models.RoleRetrievalOfficer, page); got != allowed[page] {
			t.Fatalf("retrieval officer access to %s = %v, want %v", page, got, allowed[page])
		}
	}
}

func TestUnknownRoleHasNoPages(t *testing.T) {
	if CanAccess("", PageDashboard) {
		t.Fatalf("empty role granted dashboard")
	}
	if CanAccess("Janitor", PageDashboard) {
		t.Fatalf("unknown role granted dashboard")
	}
	if pages := PagesForRole("Janitor"); len(pages) != 0 {
		t.Fatalf("unknown role has %d pages", len(pages))
	}
}

func TestExactMatchOnly(t *testing.T) {
	if CanAccess(models.RoleAdministrator, "dash") {
		t.Fatalf("partial page id matched")
	}
	if CanAccess(models.RoleAdministrator, "Dashboard") {
		t.Fatalf("page ids are case sensitive")
	}
}

func TestPagesForRoleReturnsCopy(t *testing.T) {
	pages := PagesForRole(models.RoleFieldOfficer)
	if len(pages) == 0 {
		t.Fatalf("field officer has no pages")
	}
	pages[0] = "tampered"
	if !CanAccess(models.RoleFieldOfficer, PageDashboard) {
		t.Fatalf("mutating the returned slice changed the permission table")
	}
}
