package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("open journal.xlsx: no such file")
	err := NewSourceError(cause, "journal.xlsx")

	assert.Equal(t, ErrorTypeSource, err.Type)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrWriteFailed)
	assert.Contains(t, err.Error(), "no such file")
	assert.Equal(t, "journal.xlsx", err.Context["path"])
	assert.Contains(t, err.Source, "errors_test.go")
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, TypeOf(NewInvalidDateError("Sheet1")))
	wrapped := fmt.Errorf("outer: %w", NewStorageError(errors.New("disk full"), "WRITE_FAILED", "write"))
	assert.Equal(t, ErrorTypeStorage, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain")))
}

func TestHandlerLogsByType(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), NewInvalidDateError("notes"))
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "label=notes")

	buf.Reset()
	h.Handle(context.Background(), NewDayError(errors.New("boom"), "2025-07-01"))
	require.Contains(t, buf.String(), "level=ERROR")
	require.Contains(t, buf.String(), "date=2025-07-01")

	buf.Reset()
	h.Handle(context.Background(), nil)
	require.Empty(t, buf.String())
}
