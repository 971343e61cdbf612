package spreadsheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
)

func TestParseRows(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]string
		want []domain.Row
	}{
		{
			name: "named columns",
			raw: [][]string{
				{"Field", "What happened"},
				{"Sleep", "In bed 22:00"},
				{"", ""},
				{"Lunch"},
			},
			want: []domain.Row{{Field: "Sleep", Description: "In bed 22:00"}, {Field: "Lunch"}},
		},
		{
			name: "description is last other column",
			raw: [][]string{
				{"Notes", "Field", "Time", "Entry"},
				{"x", "Coffee", "07:00", " pour over "},
			},
			want: []domain.Row{{Field: "Coffee", Description: "pour over"}},
		},
		{
			name: "no field header",
			raw: [][]string{
				{"Category", "Detail"},
				{"Stress", "meeting"},
			},
			want: []domain.Row{{Field: "Stress", Description: "meeting"}},
		},
		{name: "empty", raw: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRows(tt.raw))
		})
	}
}

func TestWorkbookPeriods(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "2025-07-02"))
	_, err := f.NewSheet("2025-07-01")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("2025-07-02", "A1", &[]interface{}{"Field", "What happened"}))
	require.NoError(t, f.SetSheetRow("2025-07-02", "A2", &[]interface{}{"Caffeine", "coffee 95 mg"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"2025-07-02", "2025-07-01"}, wb.SheetNames())

	p, err := wb.Period("2025-07-02", "2025-07-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{{Field: "Caffeine", Description: "coffee 95 mg"}}, p.Rows)
	assert.False(t, p.Empty())

	p, err = wb.Period("2025-07-01", "2025-07-01")
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestOpenMissingWorkbook(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}
