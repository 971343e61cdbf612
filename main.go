package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/journal-timeline/internal/config"
	"github.com/vladimiradmaev/journal-timeline/internal/database"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/journal"
	"github.com/vladimiradmaev/journal-timeline/internal/logger"
	"github.com/vladimiradmaev/journal-timeline/internal/notify"
	"github.com/vladimiradmaev/journal-timeline/internal/output"
	"github.com/vladimiradmaev/journal-timeline/internal/repository"
	"github.com/vladimiradmaev/journal-timeline/internal/services"
	"github.com/vladimiradmaev/journal-timeline/internal/spreadsheet"
	"github.com/vladimiradmaev/journal-timeline/internal/state"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := parseFlags(flag.NewFlagSet("journal-timeline", flag.ContinueOnError), args, cfg); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if envErr != nil {
		logger.Debug(".env file not found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errHandler := apperrors.NewHandler(logger.GetLogger())

	rules, err := journal.LoadRuleTable(cfg.RulesPath)
	if err != nil {
		errHandler.Handle(ctx, err)
		return 2
	}

	workbook, err := spreadsheet.Open(cfg.JournalPath)
	if err != nil {
		errHandler.Handle(ctx, err)
		return 1
	}
	defer workbook.Close()
	logger.Info("Journal opened", "path", cfg.JournalPath, "sheets", len(workbook.SheetNames()))

	svc := services.NewJournalService(
		journal.NewExtractor(rules),
		output.NewWriter(cfg.OutputDir, cfg.SingleDay()),
		services.Options{Date: cfg.JournalDate, Sheet: cfg.JournalSheet},
	)

	// Optional sinks: a failure to connect is reported and the run continues without them
	var dayLogs *repository.DayLogRepository
	if cfg.PersistenceEnabled() {
		db, err := database.Open(cfg.DB)
		if err != nil {
			errHandler.Handle(ctx, apperrors.NewStorageError(err, "DB_ERROR", "Database unavailable, day logs will not be stored"))
		} else {
			defer database.Close(db)
			dayLogs = repository.NewDayLogRepository(db)
			svc.WithStore(dayLogs)
		}
	}

	if cfg.RedisEnabled() {
		checkpoint, err := state.NewRedisCheckpoint(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			errHandler.Handle(ctx, apperrors.NewStorageError(err, "CHECKPOINT_FAILED", "Redis unavailable, using in-memory checkpoints"))
			svc.WithCheckpoint(state.NewMemoryCheckpoint())
		} else {
			defer checkpoint.Close()
			svc.WithCheckpoint(checkpoint)
		}
	} else {
		svc.WithCheckpoint(state.NewMemoryCheckpoint())
	}

	if cfg.NotifyEnabled() {
		chatID, _ := cfg.ChatID()
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, chatID)
		if err != nil {
			errHandler.Handle(ctx, err)
		} else {
			svc.WithNotifier(notifier)
		}
	}

	result, err := svc.Run(ctx, workbook)
	if err != nil {
		errHandler.Handle(ctx, err)
		return 1
	}

	if dayLogs != nil {
		stored, err := dayLogs.ListByRun(ctx, result.RunID)
		if err != nil {
			errHandler.Handle(ctx, apperrors.NewStorageError(err, "DB_ERROR", "Failed to list stored day logs"))
		} else {
			logger.Info("Day logs stored", "run_id", result.RunID, "count", len(stored))
		}
	}
	return 0
}

func parseFlags(fs *flag.FlagSet, args []string, cfg *config.Config) error {
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.JournalPath, "in", cfg.JournalPath, "Path to the journal workbook (.xlsx)")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory to write per-day JSON documents into")
	fs.StringVar(&cfg.JournalDate, "date", cfg.JournalDate, "Convert a single sheet under this YYYY-MM-DD date")
	fs.StringVar(&cfg.JournalSheet, "sheet", cfg.JournalSheet, "Sheet used with -date (default: first sheet)")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "Optional YAML file overriding default times, estimates and substances")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run . -in full_routine_journal.xlsx -out dataset")
		fmt.Fprintln(fs.Output(), "  go run . -in day.xlsx -date 2025-07-01")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.JournalPath != "" {
		cfg.JournalPath = filepath.Clean(cfg.JournalPath)
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}
	if cfg.RulesPath != "" {
		cfg.RulesPath = filepath.Clean(cfg.RulesPath)
	}
	return nil
}
