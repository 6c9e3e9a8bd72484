package evaluation

import "testing"

func TestAverage(t *testing.T) {
	tests := []struct {
		name      string
		knowledge float64
		skill     float64
		attitude  float64
		want      float64
	}{
		{name: "whole numbers", knowledge: 8, skill: 7, attitude: 9, want: 8},
		{name: "rounds up", knowledge: 10, skill: 10, attitude: 9, want: 9.67},
		{name: "rounds down", knowledge: 7, skill: 7, attitude: 8, want: 7.33},
		{name: "zeros", knowledge: 0, skill: 0, attitude: 0, want: 0},
		{name: "max scores", knowledge: 10, skill: 10, attitude: 10, want: 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Average(tc.knowledge, tc.skill, tc.attitude); got != tc.want {
				t.Fatalf("Average(%v, %v, %v) = %v, want %v", tc.knowledge, tc.skill, tc.attitude, got, tc.want)
			}
		})
	}
}

func TestValidScore(t *testing.T) {
	for _, value := range []float64{0, 5.5, 10} {
		if !ValidScore(value) {
			t.Fatalf("expected %v to be valid", value)
		}
	}
	for _, value := range []float64{-0.1, 10.1, 99} {
		if ValidScore(value) {
			t.Fatalf("expected %v to be invalid", value)
		}
	}
}
