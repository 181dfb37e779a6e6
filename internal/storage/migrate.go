package storage

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shortly/internal/models"
)

func Migrate(db *gorm.DB, log *zap.Logger) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.URL{},
		&models.Click{},
	); err != nil {
		log.Fatal("Failed to migrate the database", zap.Error(err))
	}
	log.Info("Database migration completed")
}
