package db

import (
	"fmt"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.Issuance{},
		&models.Notification{},
		&models.SMSEntry{},
		&models.AuditEntry{},
		&models.Document{},
	)
}
