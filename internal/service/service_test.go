package service

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shortly/config"
	"shortly/internal/models"
	"shortly/internal/repository"
)

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

func testConfig() *config.Config {
	return &config.Config{
		BaseURL: "http://localhost:8080",
		JWT: config.JWTConfig{
			Secret: "test-secret",
			Exp:    time.Hour,
		},
		App: config.AppConfig{
			DefaultExpiry: 365 * 24 * time.Hour,
			MaxExpiry:     365 * 24 * time.Hour,
			PurgeAfter:    30 * 24 * time.Hour,
		},
	}
}

func newURLService(t *testing.T) (*URLService, *repository.URLRepository, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	repo := repository.NewURLRepository(db)
	return NewURLService(repo, testConfig(), zap.NewNop()), repo, db
}

func int64Ptr(n int64) *int64 {
	return &n
}
