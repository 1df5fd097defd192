package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Device lifecycle states.
const (
	StatusAwaiting  = "Awaiting Retrieval"
	StatusRetrieved = "Retrieved"
	StatusDelayed   = "Delayed"
)

// Device represents one physical unit issued to an agency.
type Device struct {
	ID string `gorm:"type:text;primaryKey"` // External device serial.

	Regime string `gorm:"type:text;not null;index"` // Customs regime governing the SLA threshold.
	Agency string `gorm:"type:text;not null"`       // Receiving agency.
	Dest   string `gorm:"type:text;not null"`       // Destination site.

	Issued         time.Time `gorm:"not null"` // Issue date.
	ExpectedReturn time.Time `gorm:"not null"` // Issued plus the agreed return window.

	FieldConfirmed   bool    `gorm:"not null;default:false"` // On-site deployment acknowledged.
	FieldConfirmedBy *string `gorm:"type:text"`              // Confirming officer name.

	// Derived fields. Written only by the SLA engine or the retrieval
	// transition; never hand-edited.
	Status      string `gorm:"type:text;not null;index"` // One of the Status* constants.
	DaysOverdue int    `gorm:"not null;default:0"`       // Whole days past the expected return.
	IsDelayed   bool   `gorm:"not null;default:false"`   // Past the regime's SLA threshold.

	RetrievalOfficer *string    `gorm:"type:text"` // Collecting officer name.
	RetrievalTime    *time.Time ``                 // When the device was collected.

	Trail datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Per-device audit trail, chronological.

	CreatedAt time.Time `gorm:"not null"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TrailEntry is one event in a device's audit trail.
type TrailEntry struct {
	Event  string `json:"event"`
	Detail string `json:"detail"`
	Time   string `json:"time"`
	Color  string `json:"color"`
}

// TrailEntries decodes the audit trail column. Malformed content degrades to
// an empty trail.
func (d *Device) TrailEntries() []TrailEntry {
	if len(d.Trail) == 0 {
		return nil
	}
	var entries []TrailEntry
	if err := json.Unmarshal(d.Trail, &entries); err != nil {
		return nil
	}
	return entries
}

// AppendTrail appends an event to the device's audit trail.
func (d *Device) AppendTrail(entry TrailEntry) {
	entries := append(d.TrailEntries(), entry)
	encoded, err := json.Marshal(entries)
	if err != nil {
		return
	}
	d.Trail = datatypes.JSON(encoded)
}
