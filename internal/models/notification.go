package models

import "time"

// Notification kinds emitted by the lifecycle workflows.
const (
	NotifyUpcoming  = "upcoming"
	NotifyDelayed   = "delayed"
	NotifyAssign    = "assign"
	NotifyRetrieved = "retrieved"
)

// Notification is one entry in the capped, newest-first notification feed.
type Notification struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key; descending order gives newest-first.

	Type    string `gorm:"type:text;not null"` // One of the Notify* constants.
	Title   string `gorm:"type:text;not null"` // Short headline.
	Desc    string `gorm:"type:text"`          // Longer description.
	Tag     string `gorm:"type:text"`          // Filter tag shown in the feed.
	Extra   string `gorm:"type:text"`          // Optional supplementary line.
	Officer string `gorm:"type:text"`          // Optional related officer name.

	// Read state; toggling it never moves the entry. No column default: gorm
	// skips zero values for defaulted fields, which would flip seeded read
	// entries back to unread.
	Unread bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
