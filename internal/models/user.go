package models

import "time"

// Roles assignable to a user account.
const (
	RoleAdministrator    = "Administrator"
	RoleSupervisor       = "Supervisor"
	RoleFieldOfficer     = "Field Officer"
	RoleRetrievalOfficer = "Retrieval Officer"
)

// User represents a dashboard account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Password string `gorm:"type:text;not null"`             // Hashed password.
	Name     string `gorm:"type:text;not null"`             // Display name.
	Role     string `gorm:"type:text;not null"`             // One of the Role* constants.
	Phone    string `gorm:"type:text"`                      // Contact number (or email for system accounts).
	Color    string `gorm:"type:text"`                      // Avatar color.

	Active bool `gorm:"not null;default:true"` // Whether the user can sign in.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
