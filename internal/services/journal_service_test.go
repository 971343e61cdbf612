package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/journal"
	"github.com/vladimiradmaev/journal-timeline/internal/output"
	"github.com/vladimiradmaev/journal-timeline/internal/state"
)

type fakeSource struct {
	sheets  []string
	rows    map[string][]domain.Row
	readErr map[string]error
}

func (f *fakeSource) SheetNames() []string { return f.sheets }

func (f *fakeSource) Period(sheet, date string) (domain.DayPeriod, error) {
	if err := f.readErr[sheet]; err != nil {
		return domain.DayPeriod{}, err
	}
	return domain.DayPeriod{Label: sheet, Date: date, Rows: f.rows[sheet]}, nil
}

type savedLog struct {
	runID string
	date  string
}

type fakeStore struct {
	saved []savedLog
	err   error
}

func (f *fakeStore) SaveDayLog(_ context.Context, runID string, record *domain.DayRecord, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, savedLog{runID: runID, date: record.Date})
	return nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

type panickyWriter struct {
	*output.Writer
	panicOn string
}

func (w *panickyWriter) Write(date string, document []byte) (string, error) {
	if date == w.panicOn {
		panic("disk on fire")
	}
	return w.Writer.Write(date, document)
}

var dayRows = []domain.Row{
	{Field: "Coffee", Description: "one mug at 07:15"},
	{Field: "Lunch", Description: "salad 12:40"},
	{Field: "Stress", Description: "deadline, 6/10"},
}

func newSource() *fakeSource {
	return &fakeSource{
		sheets: []string{"2025-07-01", "2025-07-02", "notes", "2025-07-03"},
		rows: map[string][]domain.Row{
			"2025-07-01": dayRows,
			"notes":      dayRows,
		},
		readErr: map[string]error{"2025-07-03": errors.New("corrupt sheet")},
	}
}

func TestRunIsolatesFailingDays(t *testing.T) {
	dir := t.TempDir()
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(dir, false), Options{}).
		WithStore(store).
		WithNotifier(notifier)

	result, err := svc.Run(context.Background(), newSource())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Days, 3)
	assert.Equal(t, StatusWritten, result.Days[0].Status)
	assert.Equal(t, 3, result.Days[0].Events)
	assert.Equal(t, StatusFailed, result.Days[1].Status)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(result.Days[1].Err))
	assert.Equal(t, StatusFailed, result.Days[2].Status)

	want := filepath.Join(dir, "migraine_log_2025-07-01.json")
	assert.Equal(t, []string{want}, result.Files())
	assert.FileExists(t, want)
	assert.NoFileExists(t, filepath.Join(dir, "migraine_log_2025-07-02.json"))

	assert.Equal(t, []savedLog{{runID: result.RunID, date: "2025-07-01"}}, store.saved)
	require.Len(t, notifier.messages, 1)
	assert.True(t, strings.HasPrefix(notifier.messages[0], "1 of 3 day-periods succeeded"))
}

func TestRunSkipsUnchangedDays(t *testing.T) {
	dir := t.TempDir()
	store := &fakeStore{}
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(dir, false), Options{}).
		WithStore(store).
		WithCheckpoint(state.NewMemoryCheckpoint())
	src := &fakeSource{sheets: []string{"2025-07-01"}, rows: map[string][]domain.Row{"2025-07-01": dayRows}}

	first, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, first.Days[0].Status)

	second, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, second.Days[0].Status)
	assert.Equal(t, 1, second.Succeeded)
	assert.Len(t, store.saved, 1)

	require.NoError(t, os.Remove(first.Days[0].Path))
	third, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, third.Days[0].Status)
	assert.Len(t, store.saved, 2)
}

func TestRunRewritesChangedDay(t *testing.T) {
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(t.TempDir(), false), Options{}).
		WithCheckpoint(state.NewMemoryCheckpoint())
	src := &fakeSource{sheets: []string{"2025-07-01"}, rows: map[string][]domain.Row{"2025-07-01": dayRows}}

	_, err := svc.Run(context.Background(), src)
	require.NoError(t, err)

	src.rows["2025-07-01"] = append([]domain.Row{{Field: "Water", Description: "16 oz"}}, dayRows...)
	result, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, result.Days[0].Status)
	assert.Equal(t, 4, result.Days[0].Events)
}

func TestRunSingleDay(t *testing.T) {
	dir := t.TempDir()
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(dir, true), Options{Date: "2025-07-05"})
	src := &fakeSource{sheets: []string{"Journal", "Other"}, rows: map[string][]domain.Row{"Journal": dayRows}}

	result, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	assert.Equal(t, "2025-07-05", result.Days[0].Date)
	assert.Equal(t, filepath.Join(dir, "migraine_log_2025-07-05_from_excel.json"), result.Days[0].Path)

	data, err := os.ReadFile(result.Days[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Time": "2025-07-05T07:15"`)
}

func TestRunSingleDayMissingSheet(t *testing.T) {
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(t.TempDir(), true), Options{Date: "2025-07-05", Sheet: "Nope"})

	_, err := svc.Run(context.Background(), &fakeSource{sheets: []string{"Journal"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeSource, apperrors.TypeOf(err))
}

func TestRunRecoversFromPanic(t *testing.T) {
	writer := &panickyWriter{Writer: output.NewWriter(t.TempDir(), false), panicOn: "2025-07-01"}
	svc := NewJournalService(journal.NewExtractor(nil), writer, Options{})
	src := &fakeSource{
		sheets: []string{"2025-07-01", "2025-07-02"},
		rows:   map[string][]domain.Row{"2025-07-01": dayRows, "2025-07-02": dayRows},
	}

	result, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, StatusFailed, result.Days[0].Status)
	assert.ErrorIs(t, result.Days[0].Err, apperrors.ErrDayFailed)
	assert.Contains(t, result.Days[0].Err.Error(), "disk on fire")
	assert.Equal(t, StatusWritten, result.Days[1].Status)
}

func TestRunStoreFailureKeepsDay(t *testing.T) {
	checkpoint := state.NewMemoryCheckpoint()
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(t.TempDir(), false), Options{}).
		WithStore(&fakeStore{err: errors.New("db down")}).
		WithCheckpoint(checkpoint).
		WithNotifier(&fakeNotifier{err: errors.New("telegram down")})
	src := &fakeSource{sheets: []string{"2025-07-01"}, rows: map[string][]domain.Row{"2025-07-01": dayRows}}

	result, err := svc.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	_, ok := checkpoint.Digest(context.Background(), "2025-07-01")
	assert.False(t, ok)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewJournalService(journal.NewExtractor(nil), output.NewWriter(t.TempDir(), false), Options{})

	_, err := svc.Run(ctx, newSource())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultSummary(t *testing.T) {
	r := &Result{
		Total:     3,
		Succeeded: 2,
		Days: []DayOutcome{
			{Label: "2025-07-01", Date: "2025-07-01", Status: StatusWritten, Events: 4, Path: "a.json"},
			{Label: "2025-07-02", Date: "2025-07-02", Status: StatusUnchanged, Events: 2, Path: "b.json"},
			{Label: "notes", Date: "notes", Status: StatusFailed, Err: errors.New("bad date")},
		},
	}
	assert.Equal(t, "2 of 3 day-periods succeeded\n✓ 2025-07-01 (4 events)\n= 2025-07-02 (2 events, unchanged)\n✗ notes: bad date", r.Summary())
	assert.Equal(t, []string{"a.json", "b.json"}, r.Files())
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Digest(nil))
	assert.NotEqual(t, Digest([]byte("a")), Digest([]byte("b")))
}
