package models_test

import (
	"testing"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/models"
)

func TestParseDateFilter(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2026-08-15", true, "2026-08-15"},
		{"  2026-08-15  ", true, "2026-08-15"},
		{"", false, ""},
		{"   ", false, ""},
		// Malformed values behave as if no filter was supplied.
		{"15/08/2026", false, ""},
		{"2026-13-40", false, ""},
		{"not-a-date", false, ""},
	}

	for _, tc := range cases {
		d, ok := models.ParseDateFilter(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDateFilter(%q) ok = %v; want %v", tc.in, ok, tc.ok)
		}
		if ok && d.Format("2006-01-02") != tc.want {
			t.Fatalf("ParseDateFilter(%q) = %s; want %s", tc.in, d.Format("2006-01-02"), tc.want)
		}
	}
}

func TestFirstOfCurrentMonth(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 30, 12, 0, time.UTC)
	got := models.FirstOfCurrentMonth(now)
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("FirstOfCurrentMonth(%s) = %s; want %s", now, got, want)
	}

	// Already the first of the month.
	now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := models.FirstOfCurrentMonth(now); !got.Equal(now) {
		t.Fatalf("FirstOfCurrentMonth(%s) = %s; want unchanged", now, got)
	}
}
