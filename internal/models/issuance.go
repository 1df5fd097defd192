package models

import "time"

// Issuance records a device hand-over to an agency.
type Issuance struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	DeviceID string `gorm:"type:text;not null;index"` // Issued device serial.
	Regime   string `gorm:"type:text;not null"`       // Regime at issue time.
	Agency   string `gorm:"type:text;not null"`       // Receiving agency.
	Dest     string `gorm:"type:text;not null"`       // Destination site.
	IssuedBy string `gorm:"type:text"`                // Name of the user who issued the device.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
