package storage

import (
	"fmt"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/config"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Open(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	return db, nil
}

// Migrate is shared with the sqlite-backed repository tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.User{}, &entity.RefreshToken{}, &entity.OtpVerification{})
}
