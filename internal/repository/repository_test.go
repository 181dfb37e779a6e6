package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shortly/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.URL{}, &models.Click{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestURL(t *testing.T, db *gorm.DB, shortCode string, userID *uuid.UUID, expiresAt *time.Time, active bool) *models.URL {
	t.Helper()

	u := &models.URL{
		ShortCode:   shortCode,
		OriginalURL: "https://example.com/" + shortCode,
		UserID:      userID,
		ExpiresAt:   expiresAt,
		Active:      active,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create test url: %v", err)
	}
	return u
}

func createTestClick(t *testing.T, db *gorm.DB, urlID uint, clickedAt time.Time, referrer, country *string) {
	t.Helper()

	click := &models.Click{
		URLID:     urlID,
		ClickedAt: clickedAt,
		Referrer:  referrer,
		Country:   country,
	}
	if err := db.Create(click).Error; err != nil {
		t.Fatalf("failed to create test click: %v", err)
	}
}

func strPtr(s string) *string {
	return &s
}
