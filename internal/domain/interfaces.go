package domain

import (
	"context"
)

// DayLogStore persists finalized day records
type DayLogStore interface {
	SaveDayLog(ctx context.Context, runID string, record *DayRecord, document []byte) error
}

// Checkpoint remembers the digest of the last document written for a day
type Checkpoint interface {
	Digest(ctx context.Context, date string) (string, bool)
	SetDigest(ctx context.Context, date, digest string) error
}

// Notifier delivers the run summary to an operator
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DocumentWriter writes one rendered day document
type DocumentWriter interface {
	Path(date string) string
	Write(date string, document []byte) (string, error)
}
