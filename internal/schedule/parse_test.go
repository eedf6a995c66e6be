package schedule

import (
	"testing"
	"time"
)

func TestParseLabel_RoundTripsGeneratorOutput(t *testing.T) {
	now := time.Date(2024, time.December, 2, 9, 0, 0, 0, time.UTC)
	wantClock := [][2]int{{10, 0}, {14, 0}, {11, 0}}
	wantDay := []int{2, 3, 4}

	for i, label := range ProposeMeetingTimes(now) {
		got, err := ParseLabel(label, now, time.UTC)
		if err != nil {
			t.Fatalf("slot %d %q: %v", i, label, err)
		}
		if got.Year() != 2024 || got.Month() != time.December || got.Day() != wantDay[i] {
			t.Fatalf("slot %d %q: parsed to %s", i, label, got)
		}
		if got.Hour() != wantClock[i][0] || got.Minute() != wantClock[i][1] {
			t.Fatalf("slot %d %q: parsed clock %02d:%02d", i, label, got.Hour(), got.Minute())
		}
	}
}

func TestParseLabel_RollsForwardPastDates(t *testing.T) {
	now := time.Date(2024, time.December, 20, 9, 0, 0, 0, time.UTC)

	got, err := ParseLabel("Ponedeljak, 6. januar u 10:00", now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 {
		t.Fatalf("expected year rollover to 2025, got %d", got.Year())
	}

	// Same-day labels stay in the current year.
	got, err = ParseLabel("Petak, 20. decembar u 14:00", now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2024 {
		t.Fatalf("expected current year, got %d", got.Year())
	}
}

func TestParseLabel_UsesRequestedLocation(t *testing.T) {
	loc := Location(DefaultTimeZone)
	now := time.Date(2024, time.June, 3, 0, 0, 0, 0, loc)

	got, err := ParseLabel("Ponedeljak, 3. jun u 10:00", now, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != loc {
		t.Fatalf("expected location %v, got %v", loc, got.Location())
	}
}

func TestParseLabel_Rejections(t *testing.T) {
	now := time.Date(2024, time.December, 2, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		label string
	}{
		{"garbage", "izaberite termin"},
		{"unknown month", "Ponedeljak, 2. frimaire u 10:00"},
		{"impossible date", "Sreda, 31. februar u 10:00"},
		{"invalid clock", "Sreda, 4. decembar u 29:00"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLabel(tc.label, now, time.UTC); err == nil {
				t.Fatalf("expected error for %q", tc.label)
			}
		})
	}
}
