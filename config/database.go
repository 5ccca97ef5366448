package config

import (
	"fmt"

	"github.com/andrewpaige1/studydesk/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSQLitePath = "studydesk.db"

// Connect opens the database holding subjects and calendar events and
// migrates their tables.
func Connect(env *Environment) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch env.DBDriver {
	case "sqlite":
		path := env.DBURL
		if path == "" {
			path = defaultSQLitePath
		}
		dialector = sqlite.Open(path)
	default:
		dialector = postgres.Open(env.DBURL)
	}

	cfg := &gorm.Config{}
	if !env.IsDevelopment() {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Subject{}, &models.CalendarEvent{}); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return nil
}
