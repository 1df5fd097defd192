// Package journal manages the capped, append-only feeds: the notification
// feed, the SMS log and the global audit trail. Entries are served
// newest-first; once a feed exceeds its cap the oldest entries are evicted.
package journal

import (
	"context"
	"fmt"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Feed caps. Eviction is strictly oldest-discarded.
const (
	NotificationCap = 200
	SMSCap          = 100
	AuditCap        = 500
)

// Journal appends to and reads the capped feeds.
type Journal struct {
	db *gorm.DB
}

// New constructs a Journal over a database connection.
func New(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// trimToCap deletes all but the newest `cap` rows of a feed table. Row ids
// are monotonic, so newest-first is descending id order.
func (j *Journal) trimToCap(ctx context.Context, table string, cap int) error {
	res := j.db.WithContext(ctx).Exec(fmt.Sprintf(`
		DELETE FROM %s
		WHERE id NOT IN (
			SELECT id FROM %s
			ORDER BY id DESC
			LIMIT ?
		)
	`, table, table), cap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Debugf("journal: evicted %d rows from %s", res.RowsAffected, table)
	}
	return nil
}

// AddNotification appends to the notification feed and evicts past the cap.
// New entries are unread.
func (j *Journal) AddNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = 0
	n.Unread = true
	if errCreate := j.db.WithContext(ctx).Create(&n).Error; errCreate != nil {
		return models.Notification{}, errCreate
	}
	if errTrim := j.trimToCap(ctx, "notifications", NotificationCap); errTrim != nil {
		return models.Notification{}, errTrim
	}
	return n, nil
}

// Notifications returns the feed newest-first.
func (j *Journal) Notifications(ctx context.Context) ([]models.Notification, error) {
	var list []models.Notification
	err := j.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}

// MarkRead clears the unread flag on one entry. The entry keeps its position.
func (j *Journal) MarkRead(ctx context.Context, id uint64) error {
	return j.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("unread", false).Error
}

// MarkAllRead clears the unread flag on every entry.
func (j *Journal) MarkAllRead(ctx context.Context) error {
	return j.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("unread = ?", true).
		Update("unread", false).Error
}

// UnreadCount returns the number of unread notifications.
func (j *Journal) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := j.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("unread = ?", true).
		Count(&n).Error
	return n, err
}

// AddSMS appends to the SMS log and evicts past the cap.
func (j *Journal) AddSMS(ctx context.Context, entry models.SMSEntry) (models.SMSEntry, error) {
	entry.ID = 0
	if errCreate := j.db.WithContext(ctx).Create(&entry).Error; errCreate != nil {
		return models.SMSEntry{}, errCreate
	}
	if errTrim := j.trimToCap(ctx, "sms_entries", SMSCap); errTrim != nil {
		return models.SMSEntry{}, errTrim
	}
	return entry, nil
}

// SMSLog returns the SMS log newest-first.
func (j *Journal) SMSLog(ctx context.Context) ([]models.SMSEntry, error) {
	var list []models.SMSEntry
	err := j.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}

// LogAudit appends to the global audit trail and evicts past the cap. An
// empty user is recorded as "System". Audit failures are logged, not
// propagated.
func (j *Journal) LogAudit(ctx context.Context, action, details, user string) {
	if user == "" {
		user = "System"
	}
	entry := models.AuditEntry{Action: action, Details: details, User: user}
	if errCreate := j.db.WithContext(ctx).Create(&entry).Error; errCreate != nil {
		log.WithError(errCreate).Warn("journal: audit append failed")
		return
	}
	if errTrim := j.trimToCap(ctx, "audit_entries", AuditCap); errTrim != nil {
		log.WithError(errTrim).Warn("journal: audit trim failed")
	}
}

// AuditLog returns the global audit trail newest-first.
func (j *Journal) AuditLog(ctx context.Context) ([]models.AuditEntry, error) {
	var list []models.AuditEntry
	err := j.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}
