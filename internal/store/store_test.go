package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"gorm.io/gorm"
)

func openKV(t *testing.T) *KV {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Document{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(conn)
}

func TestGetAbsentKeyReturnsNil(t *testing.T) {
	kv := openKV(t)
	if raw := kv.Get(context.Background(), "missing"); raw != nil {
		t.Fatalf("Get(missing) = %s, want nil", raw)
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	kv := openKV(t)
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if errSet := kv.Set(ctx, "sample", doc{Name: "elubo", Count: 3}); errSet != nil {
		t.Fatalf("set: %v", errSet)
	}

	var got doc
	if !kv.GetJSON(ctx, "sample", &got) {
		t.Fatalf("GetJSON returned false for a present document")
	}
	if got.Name != "elubo" || got.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSetReplacesExistingDocument(t *testing.T) {
	kv := openKV(t)
	ctx := context.Background()

	if errSet := kv.Set(ctx, "k", map[string]int{"v": 1}); errSet != nil {
		t.Fatalf("set: %v", errSet)
	}
	if errSet := kv.Set(ctx, "k", map[string]int{"v": 2}); errSet != nil {
		t.Fatalf("second set: %v", errSet)
	}

	var got map[string]int
	if !kv.GetJSON(ctx, "k", &got) {
		t.Fatalf("GetJSON returned false")
	}
	if got["v"] != 2 {
		t.Fatalf("v = %d, want 2", got["v"])
	}

	var count int64
	if errCount := kv.db.Model(&models.Document{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("document rows = %d, want 1", count)
	}
}

func TestMalformedDocumentDegradesToAbsent(t *testing.T) {
	kv := openKV(t)
	ctx := context.Background()

	doc := models.Document{Key: "broken", Value: json.RawMessage(`{"unterminated`)}
	if errCreate := kv.db.Create(&doc).Error; errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if raw := kv.Get(ctx, "broken"); raw != nil {
		t.Fatalf("malformed document should read as absent, got %s", raw)
	}
	var out map[string]any
	if kv.GetJSON(ctx, "broken", &out) {
		t.Fatalf("GetJSON should return false for a malformed document")
	}
}

func TestUpdateAppliesReadModifyWrite(t *testing.T) {
	kv := openKV(t)
	ctx := context.Background()

	if errSet := kv.Set(ctx, "counter", 5); errSet != nil {
		t.Fatalf("set: %v", errSet)
	}
	raw, errUpdate := kv.Update(ctx, "counter", func(current json.RawMessage) (any, error) {
		n := 0
		if current != nil {
			if errDecode := json.Unmarshal(current, &n); errDecode != nil {
				return nil, errDecode
			}
		}
		return n + 1, nil
	})
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if string(raw) != "6" {
		t.Fatalf("updated document = %s, want 6", raw)
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	kv := openKV(t)
	ctx := context.Background()

	if errDelete := kv.Delete(ctx, "never-set"); errDelete != nil {
		t.Fatalf("delete absent key: %v", errDelete)
	}
	if errSet := kv.Set(ctx, "gone", "x"); errSet != nil {
		t.Fatalf("set: %v", errSet)
	}
	if errDelete := kv.Delete(ctx, "gone"); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if raw := kv.Get(ctx, "gone"); raw != nil {
		t.Fatalf("deleted key still readable: %s", raw)
	}
}
