package recognition

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid month",
			now:       time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "first instant of month",
			now:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 7, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "february leap year",
			now:       time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "december crosses year",
			now:       time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			start, end := MonthWindow(tc.now)
			if !start.Equal(tc.wantStart) {
				t.Fatalf("start = %v, want %v", start, tc.wantStart)
			}
			if !end.Equal(tc.wantEnd) {
				t.Fatalf("end = %v, want %v", end, tc.wantEnd)
			}
		})
	}
}

func TestNextReset(t *testing.T) {
	now := time.Date(2025, 12, 10, 8, 0, 0, 0, time.UTC)
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := NextReset(now); !got.Equal(want) {
		t.Fatalf("NextReset = %v, want %v", got, want)
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		used int
		want int
	}{
		{used: 0, want: 3},
		{used: 1, want: 2},
		{used: 3, want: 0},
		{used: 4, want: 0},
	}
	for _, tc := range tests {
		if got := Remaining(tc.used); got != tc.want {
			t.Fatalf("Remaining(%d) = %d, want %d", tc.used, got, tc.want)
		}
	}
}
