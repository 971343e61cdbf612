package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
)

const (
	filePrefix      = "migraine_log_"
	singleDaySuffix = "_from_excel"
)

// Render encodes a day record as an indented JSON document with a trailing
// newline. Non-ASCII text is kept as is
func Render(record *domain.DayRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return buf.Bytes(), nil
}

// Writer stores day documents in a directory, one file per date
type Writer struct {
	dir       string
	singleDay bool
}

// NewWriter creates a writer for dir. Single-day runs get a distinct file
// suffix so they never overwrite workbook-wide output
func NewWriter(dir string, singleDay bool) *Writer {
	return &Writer{dir: dir, singleDay: singleDay}
}

// Path returns the file a document for date is written to
func (w *Writer) Path(date string) string {
	name := filePrefix + date
	if w.singleDay {
		name += singleDaySuffix
	}
	return filepath.Join(w.dir, name+".json")
}

// Write replaces the document for date atomically and returns its path
func (w *Writer) Write(date string, document []byte) (string, error) {
	path := w.Path(date)
	if err := writeFileAtomic(path, document, 0o644); err != nil {
		return "", apperrors.NewStorageError(err, "WRITE_FAILED", "Day document could not be written").
			WithContext("path", path)
	}
	return path, nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_day_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ domain.DocumentWriter = (*Writer)(nil)
