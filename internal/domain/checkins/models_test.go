package checkins

import "testing"

func TestValidMood(t *testing.T) {
	tests := []struct {
		mood int
		want bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tc := range tests {
		if got := ValidMood(tc.mood); got != tc.want {
			t.Fatalf("ValidMood(%d) = %v, want %v", tc.mood, got, tc.want)
		}
	}
}
