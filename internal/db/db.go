package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/heartlinkapp/discovery/internal/config"
)

// Models lists every table owned by this service, in migration order.
func Models() []any {
	return []any{
		&User{},
		&SearchSettings{},
		&GenderPreference{},
		&Interest{},
		&UserInterest{},
		&Photo{},
		&Reaction{},
		&BlockedContact{},
		&LikeSettings{},
		&LikeGenderPreference{},
	}
}

// NewDB initializes the database connection using DSN from config.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := database.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}
