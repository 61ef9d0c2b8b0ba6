package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2025 || int(d.Month()) != 3 || d.Day() != 5 {
		t.Fatalf("unexpected date parts: %s", d)
	}

	bads := []string{"", "2025-3-05", "05-03-2025", "2025/03/05", "2025-03-05T00:00:00Z", "2025-02-30"}
	for i, s := range bads {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("case %d (%q): expected error", i, s)
		}
	}
}

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year, month int
		first, last string
	}{
		{2024, 2, "2024-02-01", "2024-02-29"}, // leap year
		{2023, 2, "2023-02-01", "2023-02-28"},
		{2100, 2, "2100-02-01", "2100-02-28"}, // divisible by 100, not 400
		{2000, 2, "2000-02-01", "2000-02-29"}, // divisible by 400
		{2025, 1, "2025-01-01", "2025-01-31"},
		{2025, 4, "2025-04-01", "2025-04-30"},
		{2025, 12, "2025-12-01", "2025-12-31"},
	}
	for i, tc := range cases {
		first, last, err := MonthRange(tc.year, tc.month)
		if err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if first.String() != tc.first || last.String() != tc.last {
			t.Fatalf("case %d: expected [%s, %s], got [%s, %s]",
				i, tc.first, tc.last, first, last)
		}
	}
}

func TestMonthRangeInvalid(t *testing.T) {
	for i, tc := range []struct{ year, month int }{
		{0, 1}, {2025, 0}, {-1, 5}, {2025, 13},
	} {
		_, _, err := MonthRange(tc.year, tc.month)
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}
