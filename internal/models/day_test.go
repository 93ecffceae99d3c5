package models

import (
	"testing"
	"time"
)

func TestDayOf_NormalizesToUTC(t *testing.T) {
	// The same instant must map to the same calendar day regardless of the
	// zone the timestamp is expressed in.
	instant := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)

	zones := []string{"UTC", "America/New_York", "Asia/Tokyo", "Pacific/Auckland"}
	want := DayOf(instant)

	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Fatalf("LoadLocation(%s): %v", name, err)
		}
		got := DayOf(instant.In(loc))
		if got != want {
			t.Errorf("DayOf in %s = %s, want %s", name, got, want)
		}
	}
}

func TestDay_PrevNext(t *testing.T) {
	d := Day("2025-03-01")
	if prev := d.Prev(); prev != "2025-02-28" {
		t.Errorf("Prev() = %s, want 2025-02-28", prev)
	}
	if next := Day("2024-02-28").Next(); next != "2024-02-29" {
		t.Errorf("Next() = %s, want 2024-02-29 (leap year)", next)
	}
	if next := Day("2025-12-31").Next(); next != "2026-01-01" {
		t.Errorf("Next() = %s, want 2026-01-01", next)
	}
}

func TestDay_Ordering(t *testing.T) {
	if !Day("2025-02-01").After(Day("2025-01-31")) {
		t.Error("expected 2025-02-01 to be after 2025-01-31")
	}
	if !Day("2025-01-31").Before(Day("2025-02-01")) {
		t.Error("expected 2025-01-31 to be before 2025-02-01")
	}
	if Day("2025-01-31").After(Day("2025-01-31")) {
		t.Error("a day must not be after itself")
	}
}

func TestParseDay(t *testing.T) {
	if _, err := ParseDay("2025-13-01"); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := ParseDay("not-a-date"); err == nil {
		t.Error("expected error for garbage input")
	}
	d, err := ParseDay("2025-06-15")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d != "2025-06-15" {
		t.Errorf("ParseDay = %s", d)
	}
}
