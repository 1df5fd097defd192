// Package sla implements the device lifecycle rules: how many days a device
// is overdue, whether that crosses the regime's delay threshold, and the
// re-evaluation of the whole device collection against a reference date.
package sla

import (
	"time"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
)

// DefaultThreshold applies when a device carries a regime the config does not
// know about. Unknown regimes are never an error.
const DefaultThreshold = 3

// Config holds the per-regime delay thresholds and alert settings. Singleton,
// persisted as a store document and editable by administrators.
type Config struct {
	Thresholds  map[string]int `json:"thresholds"`
	AlertDays   int            `json:"alertDays"`
	AlertActive bool           `json:"alertActive"`
}

// DefaultConfig returns the built-in SLA rules.
func DefaultConfig() Config {
	return Config{
		Thresholds: map[string]int{
			"Warehouse": 3,
			"Freezones": 2,
			"Re-Export": 5,
			"Transit":   5,
			"Petroleum": 3,
		},
		AlertDays:   3,
		AlertActive: true,
	}
}

// Threshold returns the delay threshold for a regime, falling back to
// DefaultThreshold for unknown regimes.
func (c Config) Threshold(regime string) int {
	if t, ok := c.Thresholds[regime]; ok {
		return t
	}
	return DefaultThreshold
}

// dateOf truncates an instant to its calendar date in UTC. All overdue math
// compares dates, not instants.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue returns the whole days the expected return lies behind the
// reference date, floored at zero. Future return dates yield zero.
func DaysOverdue(reference, expectedReturn time.Time) int {
	days := int(dateOf(reference).Sub(dateOf(expectedReturn)) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// DaysUntilReturn returns the whole days from the reference date to the
// expected return. Negative when the return date has passed.
func DaysUntilReturn(reference, expectedReturn time.Time) int {
	return int(dateOf(expectedReturn).Sub(dateOf(reference)) / (24 * time.Hour))
}

// DueWithin reports whether a non-retrieved device comes due within the next
// `days` days of the reference date (inclusive, and not yet overdue).
func DueWithin(reference time.Time, d models.Device, days int) bool {
	if d.Status == models.StatusRetrieved {
		return false
	}
	until := DaysUntilReturn(reference, d.ExpectedReturn)
	return until >= 0 && until <= days
}

// Evaluate recomputes the derived fields of a single device against the
// reference date. Retrieved devices are terminal and returned unchanged.
func Evaluate(reference time.Time, d models.Device, cfg Config) models.Device {
	if d.Status == models.StatusRetrieved {
		return d
	}
	overdue := DaysOverdue(reference, d.ExpectedReturn)
	delayed := overdue >= cfg.Threshold(d.Regime)

	d.DaysOverdue = overdue
	d.IsDelayed = delayed
	switch {
	case delayed:
		d.Status = models.StatusDelayed
	case d.Status == models.StatusDelayed:
		// Threshold edits and date changes may clear a delay without a
		// retrieval event; the device heals back to awaiting.
		d.Status = models.StatusAwaiting
	}
	return d
}

// ReEvaluate recomputes the derived fields for a whole device collection.
// Pure: the input slice is not modified, and running it twice with the same
// reference date and config yields the same result. Persisting the returned
// collection is the caller's job.
func ReEvaluate(reference time.Time, devices []models.Device, cfg Config) []models.Device {
	out := make([]models.Device, len(devices))
	for i, d := range devices {
		out[i] = Evaluate(reference, d, cfg)
	}
	return out
}
