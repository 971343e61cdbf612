package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladimiradmaev/journal-timeline/internal/database"
	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
)

// DayLogRepository stores finalized day records, one row per date
type DayLogRepository struct {
	db *gorm.DB
}

// NewDayLogRepository creates a new day log repository
func NewDayLogRepository(db *gorm.DB) *DayLogRepository {
	return &DayLogRepository{db: db}
}

// SaveDayLog inserts the day or replaces the stored copy for the same date
func (r *DayLogRepository) SaveDayLog(ctx context.Context, runID string, record *domain.DayRecord, document []byte) error {
	dayLog := database.DayLog{
		ID:           uuid.NewString(),
		Date:         record.Date,
		RunID:        runID,
		EventCount:   len(record.TimelineEvents),
		CaffeineMg:   record.CaffeineMg,
		HydrationOz:  record.HydrationOz,
		StressLevel:  record.StressLevel,
		Meals:        len(record.Meals),
		Medications:  len(record.Medications),
		PainEpisodes: len(record.PainEpisodes),
		Document:     string(document),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"run_id", "event_count", "caffeine_mg", "hydration_oz", "stress_level",
			"meals", "medications", "pain_episodes", "document", "updated_at",
		}),
	}).Create(&dayLog).Error
	if err != nil {
		return apperrors.NewStorageError(err, "DB_ERROR", "Failed to save day log").
			WithContext("date", record.Date)
	}
	return nil
}

// ListByRun returns the day logs last written by runID, ordered by date
func (r *DayLogRepository) ListByRun(ctx context.Context, runID string) ([]database.DayLog, error) {
	var logs []database.DayLog
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("date").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list day logs for run %s: %w", runID, err)
	}
	return logs, nil
}

var _ domain.DayLogStore = (*DayLogRepository)(nil)
