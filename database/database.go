package database

import (
	"fmt"
	"log"
	"time"

	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/tours"
	"tour-backoffice/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres. TranslateError lets callers match unique and
// foreign-key violations with gorm's sentinel errors.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates the schema. Tables are listed parents first.
func Migrate(db *gorm.DB) error {
	// gen_random_uuid() for primary keys
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&members.Member{},
		&tours.TourPackage{},
		&tourmembers.TourMember{},
		&tourmembers.Payment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// MustInit opens and migrates the database or stops the process.
func MustInit(dsn string) *gorm.DB {
	db, err := Open(dsn)
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatal("❌ Migration error:", err)
	}
	log.Println("✅ Connected and migrated successfully")
	return db
}
