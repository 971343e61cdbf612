package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/journal"
	"github.com/vladimiradmaev/journal-timeline/internal/logger"
	"github.com/vladimiradmaev/journal-timeline/internal/output"
)

// Source exposes the day-periods of a journal workbook
type Source interface {
	SheetNames() []string
	Period(sheet, date string) (domain.DayPeriod, error)
}

// DayStatus is the outcome of one day-period
type DayStatus string

const (
	StatusWritten   DayStatus = "written"
	StatusUnchanged DayStatus = "unchanged"
	StatusFailed    DayStatus = "failed"
)

// DayOutcome reports what happened to one day-period
type DayOutcome struct {
	Label  string
	Date   string
	Status DayStatus
	Path   string
	Events int
	Err    error
}

// Result summarizes a run
type Result struct {
	RunID     string
	Days      []DayOutcome
	Succeeded int
	Total     int
}

// Files returns the output paths of every successful day, in processing order
func (r *Result) Files() []string {
	var files []string
	for _, d := range r.Days {
		if d.Status != StatusFailed {
			files = append(files, d.Path)
		}
	}
	return files
}

// Summary renders the operator-facing run report
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d day-periods succeeded", r.Succeeded, r.Total)
	for _, d := range r.Days {
		switch d.Status {
		case StatusFailed:
			fmt.Fprintf(&b, "\n✗ %s: %v", d.Label, d.Err)
		case StatusUnchanged:
			fmt.Fprintf(&b, "\n= %s (%d events, unchanged)", d.Date, d.Events)
		default:
			fmt.Fprintf(&b, "\n✓ %s (%d events)", d.Date, d.Events)
		}
	}
	return b.String()
}

// Options selects which day-periods a run covers
type Options struct {
	// Date switches to single-day mode: one sheet converted under this date
	Date string
	// Sheet names the single-day sheet; the first sheet when empty
	Sheet string
}

// JournalService converts journal day-periods into day documents
type JournalService struct {
	extractor  *journal.Extractor
	writer     domain.DocumentWriter
	opts       Options
	store      domain.DayLogStore
	checkpoint domain.Checkpoint
	notifier   domain.Notifier
	errHandler *apperrors.Handler
}

// NewJournalService creates a new journal service
func NewJournalService(extractor *journal.Extractor, writer domain.DocumentWriter, opts Options) *JournalService {
	return &JournalService{
		extractor:  extractor,
		writer:     writer,
		opts:       opts,
		errHandler: apperrors.NewHandler(logger.GetLogger()),
	}
}

// WithStore persists every written day
func (s *JournalService) WithStore(store domain.DayLogStore) *JournalService {
	s.store = store
	return s
}

// WithCheckpoint skips days whose document has not changed since the last run
func (s *JournalService) WithCheckpoint(checkpoint domain.Checkpoint) *JournalService {
	s.checkpoint = checkpoint
	return s
}

// WithNotifier sends the run summary after the last day
func (s *JournalService) WithNotifier(notifier domain.Notifier) *JournalService {
	s.notifier = notifier
	return s
}

type pending struct {
	period domain.DayPeriod
	err    error
}

// periods reads the day-periods selected by the service options
func (s *JournalService) periods(src Source) ([]pending, error) {
	sheets := src.SheetNames()
	if len(sheets) == 0 {
		return nil, apperrors.NewSourceError(fmt.Errorf("workbook has no sheets"), "")
	}

	if s.opts.Date != "" {
		sheet := s.opts.Sheet
		if sheet == "" {
			sheet = sheets[0]
		} else if !slices.Contains(sheets, sheet) {
			return nil, apperrors.NewSourceError(fmt.Errorf("sheet %q not found", sheet), "")
		}
		period, err := src.Period(sheet, s.opts.Date)
		if err != nil {
			return nil, apperrors.NewSourceError(err, sheet)
		}
		return []pending{{period: period}}, nil
	}

	out := make([]pending, 0, len(sheets))
	for _, sheet := range sheets {
		period, err := src.Period(sheet, sheet)
		if err != nil {
			period = domain.DayPeriod{Label: sheet, Date: sheet}
		}
		out = append(out, pending{period: period, err: err})
	}
	return out, nil
}

// Run converts every selected day-period. A failing day is reported and the
// run moves on; only an unreadable source or a canceled context stops it
func (s *JournalService) Run(ctx context.Context, src Source) (*Result, error) {
	items, err := s.periods(src)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	log := logger.WithFields("run_id", result.RunID)
	log.Info("Starting journal conversion", "day_periods", len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if item.err == nil && item.period.Empty() {
			log.Debug("Skipping empty day-period", "label", item.period.Label)
			continue
		}

		result.Total++
		outcome := DayOutcome{Label: item.period.Label, Date: item.period.Date}
		if item.err != nil {
			outcome.Status, outcome.Err = StatusFailed, apperrors.NewDayError(item.err, item.period.Label)
		} else {
			outcome = s.processDay(ctx, result.RunID, item.period)
		}

		if outcome.Status == StatusFailed {
			s.errHandler.Handle(ctx, outcome.Err)
		} else {
			result.Succeeded++
		}
		result.Days = append(result.Days, outcome)
	}

	log.Info(fmt.Sprintf("%d of %d day-periods succeeded", result.Succeeded, result.Total))
	for _, path := range result.Files() {
		log.Info("Output file", "path", path)
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, result.Summary()); err != nil {
			s.errHandler.Handle(ctx, err)
		}
	}
	return result, nil
}

func (s *JournalService) processDay(ctx context.Context, runID string, period domain.DayPeriod) (outcome DayOutcome) {
	outcome = DayOutcome{Label: period.Label, Date: period.Date}
	defer func() {
		if r := recover(); r != nil {
			outcome.Status = StatusFailed
			outcome.Err = apperrors.NewDayError(fmt.Errorf("panic: %v", r), period.Label)
		}
	}()

	record, err := s.extractor.BuildDay(period)
	if err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
		return outcome
	}
	outcome.Events = len(record.TimelineEvents)

	document, err := output.Render(record)
	if err != nil {
		outcome.Status, outcome.Err = StatusFailed, apperrors.NewDayError(err, period.Label)
		return outcome
	}
	digest := Digest(document)

	if s.unchanged(ctx, record.Date, digest) {
		outcome.Status, outcome.Path = StatusUnchanged, s.writer.Path(record.Date)
		logger.Info("Day unchanged", "date", record.Date, "events", outcome.Events, "path", outcome.Path)
		return outcome
	}

	path, err := s.writer.Write(record.Date, document)
	if err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
		return outcome
	}
	outcome.Status, outcome.Path = StatusWritten, path

	logger.Info("Processed day",
		"date", record.Date,
		"events", outcome.Events,
		"caffeine_mg", record.CaffeineMg,
		"hydration_oz", record.HydrationOz,
		"meals", len(record.Meals),
		"medications", len(record.Medications),
		"pain_episodes", len(record.PainEpisodes),
		"path", path,
	)

	// Sink failures do not fail the day. The checkpoint stays unset so the
	// next run writes and stores the day again
	if s.store != nil {
		if err := s.store.SaveDayLog(ctx, runID, record, document); err != nil {
			s.errHandler.Handle(ctx, err)
			return outcome
		}
	}
	if s.checkpoint != nil {
		if err := s.checkpoint.SetDigest(ctx, record.Date, digest); err != nil {
			s.errHandler.Handle(ctx, err)
		}
	}
	return outcome
}

func (s *JournalService) unchanged(ctx context.Context, date, digest string) bool {
	if s.checkpoint == nil {
		return false
	}
	previous, ok := s.checkpoint.Digest(ctx, date)
	if !ok || previous != digest {
		return false
	}
	_, err := os.Stat(s.writer.Path(date))
	return err == nil
}

// Digest returns the hex SHA-256 of a rendered document
func Digest(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}
