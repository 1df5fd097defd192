// Package store is the key-value document store backing singleton state.
// Each key holds one self-contained JSON document; malformed or absent
// documents degrade to nil rather than surfacing errors to readers.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document keys. Collections with their own tables do not go through the
// key-value store.
const (
	// SLAKey holds the SLA configuration document.
	SLAKey = "sla"
	// SeededKey marks that bootstrap data has been generated.
	SeededKey = "seeded"
)

// KV reads and writes named JSON documents.
type KV struct {
	db *gorm.DB
}

// New constructs a KV over a database connection.
func New(db *gorm.DB) *KV {
	return &KV{db: db}
}

// Get returns the raw document for a key, or nil when the key is absent or
// its content is not valid JSON.
func (s *KV) Get(ctx context.Context, key string) json.RawMessage {
	var doc models.Document
	if errFind := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error; errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).Warnf("store: read %s failed", key)
		}
		return nil
	}
	if !json.Valid(doc.Value) {
		log.Warnf("store: document %s is malformed, treating as absent", key)
		return nil
	}
	return doc.Value
}

// GetJSON decodes the document for a key into out. Returns false when the
// document is absent or cannot be decoded; out is left untouched in that case.
func (s *KV) GetJSON(ctx context.Context, key string, out any) bool {
	raw := s.Get(ctx, key)
	if raw == nil {
		return false
	}
	if errDecode := json.Unmarshal(raw, out); errDecode != nil {
		log.WithError(errDecode).Warnf("store: decode %s failed", key)
		return false
	}
	return true
}

// Set serializes value and stores it under key, replacing any prior document.
func (s *KV) Set(ctx context.Context, key string, value any) error {
	encoded, errEncode := json.Marshal(value)
	if errEncode != nil {
		return errEncode
	}
	doc := models.Document{Key: key, Value: encoded}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&doc).Error
}

// Update applies a read-modify-write to the document for key and returns the
// stored result. The read and write are not isolated from concurrent writers;
// callers that need stronger guarantees must wrap this in a transaction.
func (s *KV) Update(ctx context.Context, key string, fn func(json.RawMessage) (any, error)) (json.RawMessage, error) {
	next, errApply := fn(s.Get(ctx, key))
	if errApply != nil {
		return nil, errApply
	}
	if errSet := s.Set(ctx, key, next); errSet != nil {
		return nil, errSet
	}
	return s.Get(ctx, key), nil
}

// Delete removes the document for a key. Deleting an absent key is a no-op.
func (s *KV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&models.Document{}, "key = ?", key).Error
}
