package config

import (
	"github.com/Aulia153/Leafie-Website/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens the embedded SQLite database and runs the migrations.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.Setting{},
		&models.SensorReading{},
		&models.ActivityEntry{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
