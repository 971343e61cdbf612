package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
)

// Workbook reads journal day-periods from an .xlsx file. Each sheet holds one
// day; its first row is a header naming the field and description columns
type Workbook struct {
	path string
	file *excelize.File
}

// Open opens the workbook at path
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewSourceError(err, path)
	}
	return &Workbook{path: path, file: f}, nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Period reads one sheet as the day-period identified by date
func (w *Workbook) Period(sheet, date string) (domain.DayPeriod, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return domain.DayPeriod{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return domain.DayPeriod{Label: sheet, Date: date, Rows: ParseRows(rows)}, nil
}

// ParseRows converts raw sheet rows, header first, into journal rows.
// Blank lines are dropped
func ParseRows(raw [][]string) []domain.Row {
	if len(raw) == 0 {
		return nil
	}
	fieldCol, descCol := columns(raw[0])

	var rows []domain.Row
	for _, line := range raw[1:] {
		r := domain.Row{
			Field:       strings.TrimSpace(cell(line, fieldCol)),
			Description: strings.TrimSpace(cell(line, descCol)),
		}
		if r.Field == "" && r.Description == "" {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}

// columns picks the field column (header mentions "field") and the
// description column ("what happened" or "description", else the last
// other column). Without a field header the first two columns are used
func columns(header []string) (fieldCol, descCol int) {
	fieldCol, descCol = -1, -1
	lastOther := -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case fieldCol < 0 && strings.Contains(name, "field"):
			fieldCol = i
		case descCol < 0 && (strings.Contains(name, "what happened") || strings.Contains(name, "description")):
			descCol = i
		case name != "":
			lastOther = i
		}
	}
	if fieldCol < 0 {
		return 0, 1
	}
	if descCol < 0 {
		descCol = lastOther
	}
	if descCol < 0 {
		descCol = fieldCol + 1
	}
	return fieldCol, descCol
}

func cell(line []string, i int) string {
	if i < 0 || i >= len(line) {
		return ""
	}
	return line[i]
}
