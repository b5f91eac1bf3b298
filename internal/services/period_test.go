package services

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	ref := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	start, end := PreviousMonth(ref)

	if !start.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %s", start)
	}
	if !end.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end: %s", end)
	}
}

func TestPreviousMonthAcrossYearBoundary(t *testing.T) {
	ref := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	start, end := PreviousMonth(ref)

	if !start.Equal(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %s", start)
	}
	if !end.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end: %s", end)
	}
}
