package core

import (
	"testing"
	"time"
)

func TestParseSaleTimeDayFirst(t *testing.T) {
	got, err := ParseSaleTime("15-12-2023 23:59:59")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2023, 12, 15, 23, 59, 59, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseSaleTimeYearFirst(t *testing.T) {
	got, err := ParseSaleTime("2024-03-07 08:30:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 3, 7, 8, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseSaleTimeDateOnly(t *testing.T) {
	got, err := ParseSaleTime("01-06-2024")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestParseSaleTimeRejectsGarbage(t *testing.T) {
	for i, s := range []string{"", "yesterday", "2024/01/01", "32-01-2024", "01-13-2024 10:00:00", "01-01-2024 25:00:00"} {
		if _, err := ParseSaleTime(s); err == nil {
			t.Fatalf("case %d expected error for %q", i, s)
		}
	}
}

func TestFormatSaleTimeRoundTrip(t *testing.T) {
	orig := time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local)
	s := FormatSaleTime(orig)
	if s != "02-01-2024 10:00:00" {
		t.Fatalf("formatted %q", s)
	}
	back, err := ParseSaleTime(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !back.Equal(orig) {
		t.Fatalf("round trip %v != %v", back, orig)
	}
}

func TestSaleYearMonth(t *testing.T) {
	cases := []struct {
		in          string
		year, month int
		ok          bool
	}{
		{"02-01-2024 09:00:00", 2024, 1, true},
		{"2024-11-30 12:00:00", 2024, 11, true},
		{"bogus", 0, 0, false},
	}
	for i, tc := range cases {
		y, m, ok := SaleYearMonth(tc.in)
		if ok != tc.ok || y != tc.year || m != tc.month {
			t.Fatalf("case %d got (%d,%d,%v)", i, y, m, ok)
		}
	}
}
