package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vladimiradmaev/journal-timeline/internal/config"
)

func TestParseFlagsOverridesConfig(t *testing.T) {
	cfg := &config.Config{JournalPath: "full_routine_journal.xlsx", OutputDir: "dataset"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	err := parseFlags(fs, []string{"-in", "./data/../journal.xlsx", "-out", "out/", "-date", "2025-07-01", "-sheet", "Day"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "journal.xlsx", cfg.JournalPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "2025-07-01", cfg.JournalDate)
	assert.Equal(t, "Day", cfg.JournalSheet)
	assert.Empty(t, cfg.RulesPath)
}

func TestParseFlagsKeepsDefaults(t *testing.T) {
	cfg := &config.Config{JournalPath: "full_routine_journal.xlsx", OutputDir: "dataset"}
	require.NoError(t, parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), nil, cfg))
	assert.Equal(t, "full_routine_journal.xlsx", cfg.JournalPath)
	assert.Equal(t, "dataset", cfg.OutputDir)
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := &config.Config{}
	err := parseFlags(fs, []string{"-pretty"}, cfg)
	assert.Error(t, err)
}

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("JOURNAL_DATE", "")
	t.Setenv("RULES_PATH", "")
	t.Setenv("LOG_OUTPUT", filepath.Join(t.TempDir(), "run.log"))
}

func TestRunConvertsWorkbook(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "journal.xlsx")
	out := filepath.Join(dir, "dataset")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "2025-07-01"))
	require.NoError(t, f.SetSheetRow("2025-07-01", "A1", &[]interface{}{"Field", "What happened"}))
	require.NoError(t, f.SetSheetRow("2025-07-01", "A2", &[]interface{}{"Coffee", "one mug 07:10"}))
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	assert.Equal(t, 0, run([]string{"-in", in, "-out", out}))
	assert.FileExists(t, filepath.Join(out, "migraine_log_2025-07-01.json"))
}

func TestRunMissingWorkbook(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	assert.Equal(t, 1, run([]string{"-in", filepath.Join(dir, "missing.xlsx"), "-out", dir}))
}

func TestRunInvalidDate(t *testing.T) {
	quietEnv(t)
	assert.Equal(t, 2, run([]string{"-date", "yesterday"}))
}

func TestRunStoresDayLogs(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "journal.xlsx")
	dbPath := filepath.Join(dir, "journal.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", dbPath)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "2025-07-01"))
	require.NoError(t, f.SetSheetRow("2025-07-01", "A1", &[]interface{}{"Field", "What happened"}))
	require.NoError(t, f.SetSheetRow("2025-07-01", "A2", &[]interface{}{"Stress", "work, 5/10"}))
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	assert.Equal(t, 0, run([]string{"-in", in, "-out", filepath.Join(dir, "dataset")}))
	assert.FileExists(t, dbPath)
}
