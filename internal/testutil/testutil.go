// internal/testutil/testutil.go
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/database"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/utils"
)

const (
	JWTSecret     = "vms-test-secret"
	AdminUsername = "admin"
	AdminPassword = "admin!@#"
)

// TestConfig returns a configuration for an in-memory SQLite database with
// rate limiting, Redis and S3 disabled.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Environment: "test",
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:vms_test_%d?mode=memory&cache=shared", time.Now().UnixNano()),
			LogLevel:   "silent",
		},
		JWT: config.JWTConfig{
			SecretKey:       JWTSecret,
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		AWS: config.AWSConfig{
			Region:         "ap-southeast-3",
			S3Bucket:       "vms-test",
			ReportPrefix:   "performance-reports",
			LocalExportDir: t.TempDir(),
		},
		I18n: config.I18nConfig{DefaultLocale: "en"},
		Log:  config.LogConfig{Level: "error"},
		RateLimit: config.RateLimitConfig{
			Enabled: false,
		},
		Performance: config.PerformanceConfig{
			HistoryMode:         config.HistoryModeField,
			PONumberTimezone:    "Asia/Jakarta",
			PONumberMaxAttempts: 3,
		},
		Admin: config.AdminConfig{
			Username: AdminUsername,
			Password: AdminPassword,
			Name:     "Admin",
		},
	}
}

// SetupTestDB opens and migrates a private in-memory database. It is closed
// when the test ends.
func SetupTestDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := database.SeedInitialData(db, cfg); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	return db
}

// GenerateTestToken returns a valid access token for account.
func GenerateTestToken(t *testing.T, account *models.Account) string {
	t.Helper()

	token, err := utils.GenerateJWT(account.ID, account.Username, 1)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return token
}

// AdminToken returns an access token for the seeded admin account.
func AdminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	var admin models.Account
	if err := db.Where("username = ?", AdminUsername).First(&admin).Error; err != nil {
		t.Fatalf("Failed to load admin account: %v", err)
	}
	return GenerateTestToken(t, &admin)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes a JSON object response body.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedVendor creates a vendor with zeroed metrics.
func SeedVendor(t *testing.T, db *gorm.DB, code string) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{
		Name:           "Vendor " + code,
		ContactDetails: "contact@" + code + ".test",
		Address:        "Jl. Sudirman No. 1, Jakarta",
		VendorCode:     code,
	}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("Failed to seed vendor: %v", err)
	}
	return vendor
}

// SeedPurchaseOrder inserts po as is, filling the fields the store requires.
func SeedPurchaseOrder(t *testing.T, db *gorm.DB, vendor *models.Vendor, po *models.PurchaseOrder) *models.PurchaseOrder {
	t.Helper()

	po.VendorID = vendor.ID
	if po.PONumber == "" {
		po.PONumber = fmt.Sprintf("SEED-%d", time.Now().UnixNano())
	}
	if po.OrderDate.IsZero() {
		po.OrderDate = time.Now()
	}
	if po.Status == "" {
		po.Status = models.PurchaseStatusPending
	}
	if po.Items == nil {
		po.Items = []byte(`[]`)
	}
	if err := db.Create(po).Error; err != nil {
		t.Fatalf("Failed to seed purchase order: %v", err)
	}
	return po
}
