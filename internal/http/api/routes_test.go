package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/retrievaltrack/retrievaltrack/internal/config"
	"github.com/retrievaltrack/retrievaltrack/internal/db"
	"github.com/retrievaltrack/retrievaltrack/internal/devices"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/security"
	"github.com/retrievaltrack/retrievaltrack/internal/store"
	"gorm.io/gorm"
)

var testReference = time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)

var testJWT = config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}

func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	seedAccount(t, conn, "admin", "admin123", "Admin User", models.RoleAdministrator)
	seedAccount(t, conn, "elias.brown", "field123", "Elias Brown", models.RoleFieldOfficer)

	kv := store.New(conn)
	feeds := journal.New(conn)
	svc := devices.NewService(conn, kv, feeds, func() time.Time { return testReference })

	engine := gin.New()
	RegisterRoutes(engine, conn, svc, feeds, testJWT)
	return engine
}

func seedAccount(t *testing.T, conn *gorm.DB, username, password, name, role string) {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{Username: username, Password: hash, Name: name, Role: role, Active: true}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create %s: %v", username, errCreate)
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		encoded, errEncode := json.Marshal(body)
		if errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
		payload = encoded
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, engine *gin.Engine, username, password string) string {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/api/login", "", gin.H{"username": username, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode login response: %v", errDecode)
	}
	if out.Token == "" {
		t.Fatalf("login returned empty token")
	}
	return out.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine := newTestAPI(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/login", "", gin.H{"username": "admin", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", rec.Code)
	}
	rec = doJSON(t, engine, http.MethodPost, "/api/login", "", gin.H{"username": "ghost", "password": "x"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status %d", rec.Code)
	}
}

func TestRoutesRequireSession(t *testing.T) {
	engine := newTestAPI(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/devices", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", rec.Code)
	}
	rec = doJSON(t, engine, http.MethodGet, "/api/devices", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", rec.Code)
	}
}

func TestPageGatingByRole(t *testing.T) {
	engine := newTestAPI(t)
	fieldToken := login(t, engine, "elias.brown", "field123")

	// Field officers cannot issue devices or edit SLA rules.
	rec := doJSON(t, engine, http.MethodPost, "/api/devices", fieldToken, gin.H{
		"regime": "Warehouse", "agency": "RONOR MOTORS", "dest": "Tema", "returnDays": 7,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("field officer issue: status %d", rec.Code)
	}
	rec = doJSON(t, engine, http.MethodGet, "/api/sla", fieldToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("field officer sla: status %d", rec.Code)
	}

	// The timeline stays open to them.
	rec = doJSON(t, engine, http.MethodGet, "/api/devices", fieldToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("field officer timeline: status %d", rec.Code)
	}
}

func TestDeviceLifecycleOverHTTP(t *testing.T) {
	engine := newTestAPI(t)
	adminToken := login(t, engine, "admin", "admin123")
	fieldToken := login(t, engine, "elias.brown", "field123")

	rec := doJSON(t, engine, http.MethodPost, "/api/devices", adminToken, gin.H{
		"id": "8294402634", "regime": "Warehouse", "agency": "COMPASS POWER AFRICA LTD",
		"dest": "Elubo", "returnDays": 14,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue: status %d body %s", rec.Code, rec.Body)
	}
	var issued map[string]any
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &issued); errDecode != nil {
		t.Fatalf("decode issue response: %v", errDecode)
	}
	if issued["status"] != models.StatusAwaiting {
		t.Fatalf("issued status = %v", issued["status"])
	}
	if issued["expectedReturn"] != "2026-03-05" {
		t.Fatalf("expectedReturn = %v, want 2026-03-05", issued["expectedReturn"])
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/devices/8294402634/confirm", fieldToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", rec.Code, rec.Body)
	}
	var confirmed map[string]any
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &confirmed); errDecode != nil {
		t.Fatalf("decode confirm response: %v", errDecode)
	}
	if confirmed["fieldConfirmed"] != true || confirmed["fieldConfirmedBy"] != "Elias Brown" {
		t.Fatalf("confirm response = %v", confirmed)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/devices/8294402634/retrieve", adminToken, gin.H{"officer": "Kojo Rexford"})
	if rec.Code != http.StatusOK {
		t.Fatalf("retrieve: status %d body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, engine, http.MethodPost, "/api/devices/8294402634/retrieve", adminToken, gin.H{"officer": "Kojo Rexford"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second retrieve: status %d", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/devices/8294402634", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	var got map[string]any
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &got); errDecode != nil {
		t.Fatalf("decode get response: %v", errDecode)
	}
	if got["status"] != models.StatusRetrieved || got["retrievalOfficer"] != "Kojo Rexford" {
		t.Fatalf("final device = %v", got)
	}
}

func TestIssueValidation(t *testing.T) {
	engine := newTestAPI(t)
	adminToken := login(t, engine, "admin", "admin123")

	rec := doJSON(t, engine, http.MethodPost, "/api/devices", adminToken, gin.H{
		"regime": "Smuggling", "agency": "A", "dest": "B", "returnDays": 7,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown regime: status %d", rec.Code)
	}
	rec = doJSON(t, engine, http.MethodPost, "/api/devices", adminToken, gin.H{
		"regime": "Warehouse", "agency": "A", "dest": "B", "returnDays": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero returnDays: status %d", rec.Code)
	}
}

func TestMeReturnsSessionSnapshot(t *testing.T) {
	engine := newTestAPI(t)
	token := login(t, engine, "elias.brown", "field123")

	rec := doJSON(t, engine, http.MethodGet, "/api/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d", rec.Code)
	}
	var me struct {
		Username string   `json:"username"`
		Role     string   `json:"role"`
		Pages    []string `json:"pages"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &me); errDecode != nil {
		t.Fatalf("decode me response: %v", errDecode)
	}
	if me.Username != "elias.brown" || me.Role != models.RoleFieldOfficer {
		t.Fatalf("me = %+v", me)
	}
	if len(me.Pages) != 4 {
		t.Fatalf("field officer pages = %d, want 4", len(me.Pages))
	}
}
