package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"50", 5000, true},
		{"0", 0, true},
		{"0.5", 50, true},
		{"12.345", 1235, true},
		{"12.346", 1235, true},
		{".99", 99, true},
		{"-1", -100, true},
		{"-12.34", -1234, true},
		{"", 0, false},
		{"-", 0, false},
		{"+1", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
	}
	for i, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
			}
			if m.Cents != tc.cents {
				t.Fatalf("case %d (%q): expected %d cents, got %d", i, tc.in, tc.cents, m.Cents)
			}
		} else if err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{5000, "50"},
		{1234, "12.34"},
		{50, "0.50"},
		{5, "0.05"},
		{0, "0"},
		{-5000, "-50"},
		{-1234, "-12.34"},
	}
	for i, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("case %d: expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 5000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "50" {
		t.Fatalf("expected JSON number 50, got %s", out)
	}

	var m Money
	if err := json.Unmarshal([]byte(`12.34`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d", m.Cents)
	}
	if err := json.Unmarshal([]byte(`"7.50"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 750 {
		t.Fatalf("expected 750 cents, got %d", m.Cents)
	}
	if err := json.Unmarshal([]byte(`-50`), &m); err != nil {
		t.Fatalf("unmarshal negative: %v", err)
	}
	if m.Cents != -5000 {
		t.Fatalf("expected -5000 cents, got %d", m.Cents)
	}
	if err := json.Unmarshal([]byte(`null`), &m); err == nil {
		t.Fatalf("expected error for null amount")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1050}
	b := Money{Cents: 2500}
	if got := a.Add(b).Cents; got != 3550 {
		t.Fatalf("add: expected 3550, got %d", got)
	}
	if got := a.Sub(b).Cents; got != -1450 {
		t.Fatalf("sub: expected -1450, got %d", got)
	}
}
