package models

import "time"

// AuditEntry is one row of the process-wide administrative trail, separate
// from the per-device Trail column.
type AuditEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key; descending order gives newest-first.

	Action  string `gorm:"type:text;not null"` // Action name, e.g. "Device Issued".
	Details string `gorm:"type:text"`          // Free-form details.
	User    string `gorm:"type:text;not null"` // Acting user name, "System" when unattended.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
