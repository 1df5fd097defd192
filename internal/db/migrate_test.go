package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestMigrateSQLiteCreatesSchema(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{"users", "devices", "issuances", "notifications", "sms_entries", "audit_entries", "documents"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	for _, column := range []string{"regime", "expected_return", "field_confirmed", "status", "days_overdue", "is_delayed", "trail"} {
		if !conn.Migrator().HasColumn("devices", column) {
			t.Fatalf("devices missing column %s", column)
		}
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("first migrate: %v", errMigrate)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("second migrate: %v", errMigrate)
	}
}

func TestMigrateNilConnection(t *testing.T) {
	if errMigrate := Migrate(nil); errMigrate == nil {
		t.Fatalf("nil connection should error")
	}
}

func TestCaseInsensitiveLikeSQLite(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if expr := CaseInsensitiveLikeExpr(conn, "agency"); expr != "LOWER(agency) LIKE ?" {
		t.Fatalf("expr = %q", expr)
	}
	if pattern := NormalizeLikePattern(conn, "%COMPASS%"); pattern != "%compass%" {
		t.Fatalf("pattern = %q", pattern)
	}
}
