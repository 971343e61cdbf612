package utils

import (
	"regexp"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ClockPart returns the HH:MM part of a "YYYY-MM-DDTHH:MM" timestamp.
// Strings without a "T" separator yield the fallback
func ClockPart(timestamp, fallback string) string {
	if _, clock, ok := strings.Cut(timestamp, "T"); ok {
		return clock
	}
	return fallback
}

// IsClock reports whether s is a valid 24-hour "HH:MM" clock time
func IsClock(s string) bool {
	if !clockPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsDate reports whether s is a "YYYY-MM-DD" calendar date
func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Stamp joins a day identifier and a clock time into "YYYY-MM-DDTHH:MM"
func Stamp(date, clock string) string {
	return date + "T" + clock
}
