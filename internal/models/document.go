package models

import (
	"encoding/json"
	"time"
)

// Document stores a named JSON document in the database. The key-value store
// keeps singleton state here (SLA configuration and the like).
type Document struct {
	Key       string          `gorm:"type:varchar(255);primaryKey"`                      // Document key.
	Value     json.RawMessage `gorm:"type:jsonb"`                                        // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last update timestamp.
}
