package sla

import (
	"testing"
	"time"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
)

func date(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysOverdue(t *testing.T) {
	reference := date("2026-02-19")

	cases := []struct {
		name           string
		expectedReturn time.Time
		want           int
	}{
		{"week overdue", date("2026-02-12"), 7},
		{"due today", date("2026-02-19"), 0},
		{"due tomorrow", date("2026-02-20"), 0},
		{"future return floors at zero", date("2026-03-10"), 0},
		{"one day past", date("2026-02-18"), 1},
	}
	for _, tc := range cases {
		if got := DaysOverdue(reference, tc.expectedReturn); got != tc.want {
			t.Fatalf("%s: DaysOverdue = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDaysOverdueIgnoresTimeOfDay(t *testing.T) {
	reference := time.Date(2026, 2, 19, 23, 59, 0, 0, time.UTC)
	expectedReturn := time.Date(2026, 2, 18, 0, 1, 0, 0, time.UTC)
	if got := DaysOverdue(reference, expectedReturn); got != 1 {
		t.Fatalf("DaysOverdue = %d, want 1", got)
	}
}

func TestThresholdUnknownRegimeFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Threshold("Warehouse"); got != 3 {
		t.Fatalf("Warehouse threshold = %d, want 3", got)
	}
	if got := cfg.Threshold("Freezones"); got != 2 {
		t.Fatalf("Freezones threshold = %d, want 2", got)
	}
	if got := cfg.Threshold("Interstellar"); got != DefaultThreshold {
		t.Fatalf("unknown regime threshold = %d, want %d", got, DefaultThreshold)
	}
}

func TestEvaluateMarksDelayedAtThreshold(t *testing.T) {
	reference := date("2026-02-19")
	d := models.Device{
		ID:             "8294402634",
		Regime:         "Warehouse",
		Status:         models.StatusAwaiting,
		ExpectedReturn: date("2026-02-12"),
	}

	got := Evaluate(reference, d, DefaultConfig())
	if got.DaysOverdue != 7 {
		t.Fatalf("DaysOverdue = %d, want 7", got.DaysOverdue)
	}
	if !got.IsDelayed || got.Status != models.StatusDelayed {
		t.Fatalf("device 7 days overdue in Warehouse should be Delayed, got status %q isDelayed %v", got.Status, got.IsDelayed)
	}
}

func TestEvaluateBelowThresholdStaysAwaiting(t *testing.T) {
	reference := date("2026-02-19")
	d := models.Device{
		ID:             "8150640436",
		Regime:         "Transit",
		Status:         models.StatusAwaiting,
		ExpectedReturn: date("2026-02-17"),
	}

	got := Evaluate(reference, d, DefaultConfig())
	if got.DaysOverdue != 2 {
		t.Fatalf("DaysOverdue = %d, want 2", got.DaysOverdue)
	}
	if got.IsDelayed || got.Status != models.StatusAwaiting {
		t.Fatalf("2 days overdue under Transit threshold 5 should stay Awaiting, got %q", got.Status)
	}
}

func TestEvaluateRetrievedIsFrozen(t *testing.T) {
	reference := date("2026-02-19")
	d := models.Device{
		ID:             "8294402610",
		Regime:         "Warehouse",
		Status:         models.StatusRetrieved,
		ExpectedReturn: date("2026-01-01"),
		DaysOverdue:    0,
		IsDelayed:      false,
	}

	got := Evaluate(reference, d, DefaultConfig())
	if got.Status != models.StatusRetrieved || got.IsDelayed || got.DaysOverdue != 0 {
		t.Fatalf("retrieved device changed: status %q overdue %d delayed %v", got.Status, got.DaysOverdue, got.IsDelayed)
	}
}

func TestEvaluateDelayedHealsWhenThresholdRises(t *testing.T) {
	reference := date("2026-02-19")
	d := models.Device{
		ID:             "8294402587",
		Regime:         "Warehouse",
		Status:         models.StatusDelayed,
		IsDelayed:      true,
		DaysOverdue:    4,
		ExpectedReturn: date("2026-02-15"),
	}

	cfg := DefaultConfig()
	cfg.Thresholds["Warehouse"] = 10
	got := Evaluate(reference, d, cfg)
	if got.Status != models.StatusAwaiting || got.IsDelayed {
		t.Fatalf("delayed device under raised threshold should heal to Awaiting, got %q", got.Status)
	}
	if got.DaysOverdue != 4 {
		t.Fatalf("DaysOverdue = %d, want 4", got.DaysOverdue)
	}
}

func TestReEvaluateIsPureAndIdempotent(t *testing.T) {
	reference := date("2026-02-19")
	cfg := DefaultConfig()
	in := []models.Device{
		{ID: "a", Regime: "Warehouse", Status: models.StatusAwaiting, ExpectedReturn: date("2026-02-10")},
		{ID: "b", Regime: "Transit", Status: models.StatusAwaiting, ExpectedReturn: date("2026-02-18")},
		{ID: "c", Regime: "Freezones", Status: models.StatusRetrieved, ExpectedReturn: date("2026-01-20")},
	}

	first := ReEvaluate(reference, in, cfg)
	if in[0].Status != models.StatusAwaiting {
		t.Fatalf("input slice was mutated")
	}
	second := ReEvaluate(reference, first, cfg)
	for i := range first {
		if first[i].Status != second[i].Status ||
			first[i].DaysOverdue != second[i].DaysOverdue ||
			first[i].IsDelayed != second[i].IsDelayed {
			t.Fatalf("re-evaluation not idempotent for %s", first[i].ID)
		}
	}
	if first[0].Status != models.StatusDelayed {
		t.Fatalf("device a should be Delayed, got %q", first[0].Status)
	}
	if first[2].Status != models.StatusRetrieved {
		t.Fatalf("device c should stay Retrieved, got %q", first[2].Status)
	}
}

func TestDueWithin(t *testing.T) {
	reference := date("2026-02-19")
	d := models.Device{Status: models.StatusAwaiting, ExpectedReturn: date("2026-02-21")}
	if !DueWithin(reference, d, 3) {
		t.Fatalf("device due in 2 days should be within a 3 day window")
	}
	d.ExpectedReturn = date("2026-02-25")
	if DueWithin(reference, d, 3) {
		t.Fatalf("device due in 6 days should not be within a 3 day window")
	}
	d.ExpectedReturn = date("2026-02-17")
	if DueWithin(reference, d, 3) {
		t.Fatalf("overdue device is not upcoming")
	}
	d.Status = models.StatusRetrieved
	d.ExpectedReturn = date("2026-02-20")
	if DueWithin(reference, d, 3) {
		t.Fatalf("retrieved device is never upcoming")
	}
}
