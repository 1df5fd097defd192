// Package devices implements the device lifecycle workflows: issuance, field
// confirmation, retrieval and SLA re-evaluation.
package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/refdata"
	"github.com/retrievaltrack/retrievaltrack/internal/sla"
	"github.com/retrievaltrack/retrievaltrack/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Lifecycle errors surfaced to handlers.
var (
	// ErrNotFound indicates the device does not exist.
	ErrNotFound = errors.New("device not found")
	// ErrAlreadyRetrieved indicates the device is in its terminal state.
	ErrAlreadyRetrieved = errors.New("device already retrieved")
	// ErrExists indicates the device id is already issued.
	ErrExists = errors.New("device already exists")
)

// Trail colors used for device audit entries.
const (
	trailColorIssued    = "#1e3a5f"
	trailColorConfirmed = "#007a67"
	trailColorPending   = "#d97706"
	trailColorRetrieved = "#00c5a3"
)

// trailDate formats a date for the device audit trail.
func trailDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// Service runs the lifecycle workflows over the persistent store.
type Service struct {
	db      *gorm.DB
	kv      *store.KV
	journal *journal.Journal

	// reference supplies the date all SLA math is computed against.
	reference func() time.Time
}

// NewService constructs a Service. reference supplies the SLA reference date;
// pass a fixed date for deterministic evaluation or time.Now for wall clock.
func NewService(db *gorm.DB, kv *store.KV, j *journal.Journal, reference func() time.Time) *Service {
	return &Service{db: db, kv: kv, journal: j, reference: reference}
}

// Reference returns the current SLA reference date.
func (s *Service) Reference() time.Time {
	return s.reference()
}

// SLAConfig loads the SLA configuration document, falling back to the
// built-in defaults when absent or malformed.
func (s *Service) SLAConfig(ctx context.Context) sla.Config {
	cfg := sla.Config{}
	if !s.kv.GetJSON(ctx, store.SLAKey, &cfg) || cfg.Thresholds == nil {
		return sla.DefaultConfig()
	}
	return cfg
}

// SetSLAConfig replaces the SLA configuration and re-evaluates every device
// against the new thresholds.
func (s *Service) SetSLAConfig(ctx context.Context, cfg sla.Config, actor string) error {
	if errSet := s.kv.Set(ctx, store.SLAKey, cfg); errSet != nil {
		return errSet
	}
	s.journal.LogAudit(ctx, "SLA Updated", "Delay thresholds and alert settings changed", actor)
	_, errEval := s.ReEvaluateAll(ctx)
	return errEval
}

// ListFilter narrows List results. Zero value lists everything.
type ListFilter struct {
	Status      string // Exact status match.
	Regime      string // Exact regime match.
	DelayedOnly bool   // Only devices currently flagged delayed.
	Unconfirmed bool   // Only devices awaiting field confirmation.
}

// List returns devices, newest issuance first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Device, error) {
	q := s.db.WithContext(ctx).Order("issued DESC, id ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Regime != "" {
		q = q.Where("regime = ?", filter.Regime)
	}
	if filter.DelayedOnly {
		q = q.Where("is_delayed = ? AND status <> ?", true, models.StatusRetrieved)
	}
	if filter.Unconfirmed {
		q = q.Where("field_confirmed = ? AND status <> ?", false, models.StatusRetrieved)
	}
	var list []models.Device
	err := q.Find(&list).Error
	return list, err
}

// Get returns one device by serial.
func (s *Service) Get(ctx context.Context, id string) (models.Device, error) {
	var d models.Device
	if errFind := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.Device{}, ErrNotFound
		}
		return models.Device{}, errFind
	}
	return d, nil
}

// IssueParams holds the inputs for issuing a device.
type IssueParams struct {
	ID         string // Device serial; generated when empty.
	Regime     string
	Agency     string
	Dest       string
	ReturnDays int    // Agreed return window in days.
	IssuedBy   string // Acting user name.
}

// Issue creates a device in Awaiting Retrieval, records the issuance and
// seeds the device's audit trail.
func (s *Service) Issue(ctx context.Context, p IssueParams) (models.Device, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = "DEV-" + uuid.NewString()[:8]
	}
	if _, errGet := s.Get(ctx, id); errGet == nil {
		return models.Device{}, ErrExists
	} else if !errors.Is(errGet, ErrNotFound) {
		return models.Device{}, errGet
	}

	issued := s.reference()
	d := models.Device{
		ID:             id,
		Regime:         p.Regime,
		Agency:         p.Agency,
		Dest:           p.Dest,
		Issued:         issued,
		ExpectedReturn: issued.AddDate(0, 0, p.ReturnDays),
		Status:         models.StatusAwaiting,
		CreatedAt:      issued,
	}
	d.AppendTrail(models.TrailEntry{
		Event:  "Device Issued",
		Detail: fmt.Sprintf("Assigned to %s – %s (%s)", p.Agency, p.Dest, p.Regime),
		Time:   trailDate(issued),
		Color:  trailColorIssued,
	})

	if errCreate := s.db.WithContext(ctx).Create(&d).Error; errCreate != nil {
		return models.Device{}, errCreate
	}
	issuance := models.Issuance{
		DeviceID: d.ID,
		Regime:   d.Regime,
		Agency:   d.Agency,
		Dest:     d.Dest,
		IssuedBy: p.IssuedBy,
	}
	if errIssuance := s.db.WithContext(ctx).Create(&issuance).Error; errIssuance != nil {
		return models.Device{}, errIssuance
	}
	s.journal.LogAudit(ctx, "Device Issued", fmt.Sprintf("%s to %s (%s)", d.ID, d.Agency, d.Regime), p.IssuedBy)
	log.Infof("device %s issued to %s, expected back %s", d.ID, d.Agency, d.ExpectedReturn.Format("2006-01-02"))
	return d, nil
}

// Confirm records an officer's on-site confirmation that the device is
// deployed. Retrieved devices cannot be confirmed.
func (s *Service) Confirm(ctx context.Context, id, officer string) (models.Device, error) {
	d, errGet := s.Get(ctx, id)
	if errGet != nil {
		return models.Device{}, errGet
	}
	if d.Status == models.StatusRetrieved {
		return models.Device{}, ErrAlreadyRetrieved
	}

	d.FieldConfirmed = true
	d.FieldConfirmedBy = &officer
	d.AppendTrail(models.TrailEntry{
		Event:  "Field Confirmed",
		Detail: "Confirmed by " + officer,
		Time:   trailDate(s.reference()),
		Color:  trailColorConfirmed,
	})
	if errSave := s.db.WithContext(ctx).Save(&d).Error; errSave != nil {
		return models.Device{}, errSave
	}
	s.journal.LogAudit(ctx, "Field Confirmed", fmt.Sprintf("%s at %s", d.ID, d.Dest), officer)
	if _, errNotify := s.journal.AddNotification(ctx, models.Notification{
		Type:    models.NotifyAssign,
		Title:   "Assignment – " + officer,
		Desc:    fmt.Sprintf("%s assigned to %s at %s.", officer, d.Agency, d.Dest),
		Tag:     "assignment",
		Officer: officer,
		Extra:   fmt.Sprintf("Regime: %s · Expected: %s", d.Regime, trailDate(d.ExpectedReturn)),
	}); errNotify != nil {
		log.WithError(errNotify).Warn("confirm: notification append failed")
	}
	return d, nil
}

// Retrieve moves a device to its terminal state. Once retrieved, the SLA
// engine never touches the device again and isDelayed is forced off.
func (s *Service) Retrieve(ctx context.Context, id, officer string) (models.Device, error) {
	d, errGet := s.Get(ctx, id)
	if errGet != nil {
		return models.Device{}, errGet
	}
	if d.Status == models.StatusRetrieved {
		return models.Device{}, ErrAlreadyRetrieved
	}

	now := time.Now().UTC()
	d.Status = models.StatusRetrieved
	d.IsDelayed = false
	d.RetrievalOfficer = &officer
	d.RetrievalTime = &now
	d.AppendTrail(models.TrailEntry{
		Event:  "Retrieved",
		Detail: "Collected by " + officer,
		Time:   trailDate(s.reference()),
		Color:  trailColorRetrieved,
	})
	if errSave := s.db.WithContext(ctx).Save(&d).Error; errSave != nil {
		return models.Device{}, errSave
	}

	s.journal.LogAudit(ctx, "Device Retrieved", fmt.Sprintf("%s from %s", d.ID, d.Agency), officer)
	if _, errNotify := s.journal.AddNotification(ctx, models.Notification{
		Type:    models.NotifyRetrieved,
		Title:   "Retrieved – " + officer,
		Desc:    fmt.Sprintf("%s retrieved device %s from %s.", officer, d.ID, d.Agency),
		Tag:     "retrieved",
		Officer: officer,
	}); errNotify != nil {
		log.WithError(errNotify).Warn("retrieve: notification append failed")
	}
	return d, nil
}

// ReEvaluateAll runs the SLA engine over the full collection against the
// reference date and persists the result.
func (s *Service) ReEvaluateAll(ctx context.Context) ([]models.Device, error) {
	var list []models.Device
	if errFind := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error; errFind != nil {
		return nil, errFind
	}
	cfg := s.SLAConfig(ctx)
	reference := s.reference()

	evaluated := sla.ReEvaluate(reference, list, cfg)
	for i := range evaluated {
		if evaluated[i].Status == models.StatusRetrieved {
			continue
		}
		prev := list[i]
		if prev.Status == evaluated[i].Status &&
			prev.DaysOverdue == evaluated[i].DaysOverdue &&
			prev.IsDelayed == evaluated[i].IsDelayed {
			continue
		}
		if errSave := s.db.WithContext(ctx).
			Model(&models.Device{}).
			Where("id = ?", evaluated[i].ID).
			Updates(map[string]any{
				"status":       evaluated[i].Status,
				"days_overdue": evaluated[i].DaysOverdue,
				"is_delayed":   evaluated[i].IsDelayed,
			}).Error; errSave != nil {
			return nil, errSave
		}
	}
	return evaluated, nil
}

// AlertSummary reports what an alert sweep emitted.
type AlertSummary struct {
	Upcoming int  `json:"upcoming"`
	Delayed  int  `json:"delayed"`
	Skipped  bool `json:"skipped"`
}

// alertSweepDoc tracks the last sweep so a reference date is swept once.
type alertSweepDoc struct {
	LastSweep string `json:"lastSweep"`
}

// AlertSweep emits upcoming-return and overdue notifications (plus SMS log
// lines for confirmed devices) per the alert settings. Each reference date is
// swept at most once; re-running on the same date is a no-op.
func (s *Service) AlertSweep(ctx context.Context) (AlertSummary, error) {
	cfg := s.SLAConfig(ctx)
	if !cfg.AlertActive {
		return AlertSummary{Skipped: true}, nil
	}
	reference := s.reference()
	refDay := reference.Format("2006-01-02")

	var mark alertSweepDoc
	if s.kv.GetJSON(ctx, "alert_sweep", &mark) && mark.LastSweep == refDay {
		return AlertSummary{Skipped: true}, nil
	}

	list, errList := s.List(ctx, ListFilter{})
	if errList != nil {
		return AlertSummary{}, errList
	}

	summary := AlertSummary{}
	for _, d := range list {
		if d.Status == models.StatusRetrieved {
			continue
		}
		switch {
		case d.IsDelayed:
			if _, errNotify := s.journal.AddNotification(ctx, models.Notification{
				Type:  models.NotifyDelayed,
				Title: "Device Overdue – " + d.Agency,
				Desc:  fmt.Sprintf("Device %s at %s (%s) is %d days overdue.", d.ID, d.Dest, d.Regime, d.DaysOverdue),
				Tag:   "delayed",
				Extra: fmt.Sprintf("Device ID: %s · Overdue: %d days", d.ID, d.DaysOverdue),
			}); errNotify != nil {
				return summary, errNotify
			}
			summary.Delayed++
			s.smsAlert(ctx, d, fmt.Sprintf("ALERT: device %s at %s is %d days overdue.", d.ID, d.Dest, d.DaysOverdue))
		case sla.DueWithin(reference, d, cfg.AlertDays):
			if _, errNotify := s.journal.AddNotification(ctx, models.Notification{
				Type:  models.NotifyUpcoming,
				Title: "Upcoming – " + d.Agency,
				Desc:  fmt.Sprintf("Device %s at %s (%s) is due %s.", d.ID, d.Dest, d.Regime, trailDate(d.ExpectedReturn)),
				Tag:   "upcoming",
				Extra: fmt.Sprintf("Expected: %s · %s", trailDate(d.ExpectedReturn), d.Regime),
			}); errNotify != nil {
				return summary, errNotify
			}
			summary.Upcoming++
		}
	}

	if errMark := s.kv.Set(ctx, "alert_sweep", alertSweepDoc{LastSweep: refDay}); errMark != nil {
		return summary, errMark
	}
	log.Infof("alert sweep for %s: %d upcoming, %d delayed", refDay, summary.Upcoming, summary.Delayed)
	return summary, nil
}

// smsAlert logs an SMS to the confirming officer when one is known.
func (s *Service) smsAlert(ctx context.Context, d models.Device, message string) {
	if d.FieldConfirmedBy == nil {
		return
	}
	officer, ok := refdata.OfficerByName(*d.FieldConfirmedBy)
	if !ok {
		return
	}
	if _, errSMS := s.journal.AddSMS(ctx, models.SMSEntry{
		Recipient: officer.Name,
		Phone:     officer.Phone,
		Message:   message,
		DeviceID:  d.ID,
	}); errSMS != nil {
		log.WithError(errSMS).Warn("alert sweep: sms log append failed")
	}
}

// Issuances returns the issuance records, newest first.
func (s *Service) Issuances(ctx context.Context) ([]models.Issuance, error) {
	var list []models.Issuance
	err := s.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}
