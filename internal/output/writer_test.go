package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
)

func TestRenderEmptyDay(t *testing.T) {
	doc, err := Render(domain.NewDayRecord("2025-07-01"))
	require.NoError(t, err)

	want := `{
  "Date": "2025-07-01",
  "TimelineEvents": [],
  "SleepWindow": {
    "Bed": "",
    "Wake": ""
  },
  "CaffeineMg": 0,
  "HydrationOz": 0,
  "StressLevel": null,
  "StressNotes": "",
  "Meals": [],
  "Medications": [],
  "PainEpisodes": [],
  "Weather": {},
  "Reflection": {
    "Accomplishments": "",
    "Bothering": "",
    "TomorrowPlan": ""
  },
  "Notes": ""
}
`
	assert.Equal(t, want, string(doc))
}

func TestRenderKeepsValueOptional(t *testing.T) {
	v := 95.0
	rec := domain.NewDayRecord("2025-07-01")
	rec.TimelineEvents = append(rec.TimelineEvents,
		domain.TimelineEvent{Time: "2025-07-01T07:00", Type: domain.EventCaffeine, Subtype: "coffee", Notes: "café <large>", Value: &v, Units: "mg"},
		domain.TimelineEvent{Time: "2025-07-01T12:30", Type: domain.EventMeal, Subtype: "lunch", Notes: "salad"},
	)

	doc, err := Render(rec)
	require.NoError(t, err)
	s := string(doc)
	assert.Contains(t, s, `"Notes": "café <large>"`)
	assert.Contains(t, s, `"Value": 95,`)
	assert.Equal(t, 1, strings.Count(s, `"Value"`))
	assert.Equal(t, 1, strings.Count(s, `"Units"`))
}

func TestWriterPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dataset", "migraine_log_2025-07-01.json"), NewWriter("dataset", false).Path("2025-07-01"))
	assert.Equal(t, filepath.Join("dataset", "migraine_log_2025-07-01_from_excel.json"), NewWriter("dataset", true).Path("2025-07-01"))
}

func TestWriterWriteReplaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, false)

	path, err := w.Write("2025-07-01", []byte("{}\n"))
	require.NoError(t, err)
	_, err = w.Write("2025-07-01", []byte("{\"a\": 1}\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewWriter(blocker, false).Write("2025-07-01", []byte("{}\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrWriteFailed)
}
