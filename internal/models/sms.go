package models

import "time"

// SMSEntry logs an outbound alert message. No delivery happens; the log is
// the product.
type SMSEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key; descending order gives newest-first.

	Recipient string `gorm:"type:text;not null"` // Officer name or phone number.
	Phone     string `gorm:"type:text"`          // Destination number.
	Message   string `gorm:"type:text;not null"` // Message body.
	DeviceID  string `gorm:"type:text;index"`    // Related device, when applicable.

	SentAt time.Time `gorm:"not null;autoCreateTime"` // Log timestamp.
}
