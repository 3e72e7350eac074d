package routes

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestHealth(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "health.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	app := fiber.New()
	BaseRoutes(app, db)

	check := func(want int, wantStatus string) {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != want || body["status"] != wantStatus {
			t.Fatalf("health = %d %v", resp.StatusCode, body)
		}
		if _, ok := body["uptime_seconds"]; !ok {
			t.Fatal("uptime_seconds missing")
		}
	}
	check(fiber.StatusOK, "OK")

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()
	check(fiber.StatusServiceUnavailable, "DOWN")
}
