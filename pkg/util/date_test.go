package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-08-21")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, ok := ParseDate(""); ok {
		t.Fatalf("empty string should not parse")
	}
	if _, ok := ParseDate("21/08/2026"); ok {
		t.Fatalf("wrong layout should not parse")
	}
}

func TestNextTradingDayMidweek(t *testing.T) {
	// Tuesday -> Wednesday
	tue := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	got := NextTradingDay(tue)
	if got.Weekday() != time.Wednesday || got.Day() != 19 {
		t.Fatalf("unexpected next day %v", got)
	}
}

func TestNextTradingDaySkipsWeekend(t *testing.T) {
	// Friday -> Monday
	fri := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	got := NextTradingDay(fri)
	if got.Weekday() != time.Monday || got.Day() != 24 {
		t.Fatalf("unexpected next day %v", got)
	}
}
