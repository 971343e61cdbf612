package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/journal-timeline/internal/config"
	"github.com/vladimiradmaev/journal-timeline/internal/database/migrations"
	"github.com/vladimiradmaev/journal-timeline/internal/logger"
)

// DayLog is the persisted copy of one finalized day document
type DayLog struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Date         string `gorm:"uniqueIndex;type:varchar(10);not null"`
	RunID        string `gorm:"type:varchar(36);not null"`
	EventCount   int
	CaffeineMg   float64
	HydrationOz  float64
	StressLevel  *int
	Meals        int
	Medications  int
	PainEpisodes int
	Document     string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open connects to the configured database and brings the schema up to date
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&DayLog{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(migrations.Files, "sql"); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed", "driver", cfg.Driver)
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
