package cls

import (
	"testing"
	"time"
)

func TestParseBriefTime(t *testing.T) {
	parsed, err := ParseBriefTime("2025年03月12日 14:30:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 3, 12, 14, 30, 5, 0, time.Local)
	if !parsed.Equal(want) {
		t.Errorf("got %v, want %v", parsed, want)
	}
}

func TestParseBriefTime_TrimsWhitespace(t *testing.T) {
	parsed, err := ParseBriefTime("  2025年03月12日 14:30:05\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Second() != 5 {
		t.Errorf("got second %d, want 5", parsed.Second())
	}
}

func TestParseBriefTime_Invalid(t *testing.T) {
	if _, err := ParseBriefTime("2025-03-12 14:30:05"); err == nil {
		t.Error("expected error for wrong layout")
	}
	if _, err := ParseBriefTime(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParseLongFormTime(t *testing.T) {
	// 2025-03-12 is a Wednesday
	parsed, err := ParseLongFormTime("2025-03-12 14:30 星期三")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 3, 12, 14, 30, 0, 0, time.Local)
	if !parsed.Equal(want) {
		t.Errorf("got %v, want %v", parsed, want)
	}
}

func TestParseLongFormTime_WeekdayFirst(t *testing.T) {
	parsed, err := ParseLongFormTime("星期三 2025-03-12 14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Weekday() != time.Wednesday {
		t.Errorf("got weekday %v, want Wednesday", parsed.Weekday())
	}
}

func TestParseLongFormTime_WeekdayMismatch(t *testing.T) {
	// 2025-03-12 is a Wednesday, the byline claims Thursday
	if _, err := ParseLongFormTime("2025-03-12 14:30 星期四"); err == nil {
		t.Error("expected error for weekday mismatch")
	}
}

func TestParseLongFormTime_MissingWeekday(t *testing.T) {
	if _, err := ParseLongFormTime("2025-03-12 14:30"); err == nil {
		t.Error("expected error for missing weekday name")
	}
}
