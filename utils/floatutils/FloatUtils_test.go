package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0.0, 1.0, 0.5},
		{-2.0, 0.0, 1.0, 0.0},
		{3.0, 0.0, 1.0, 1.0},
		{1.0, 1.0, 1.0, 1.0},
	}
	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.want {
			t.Errorf("Clip(%v, %v, %v) = %v, expected %v", test.value,
				test.min, test.max, got, test.want)
		}
	}
}

func TestClipInterval(t *testing.T) {
	interval := r1.Interval{Min: -1.0, Max: 1.0}
	if got := ClipInterval(5.0, interval); got != 1.0 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := ClipInterval(-5.0, interval); got != -1.0 {
		t.Errorf("expected -1, got %v", got)
	}
}

func TestMaxSlice(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		max     float64
		indices []int
	}{
		{"single", []float64{3.0}, 3.0, []int{0}},
		{"max at front", []float64{5.0, 1.0, 2.0}, 5.0, []int{0}},
		{"max at back", []float64{1.0, 2.0, 5.0}, 5.0, []int{2}},
		{"ties", []float64{2.0, 5.0, 5.0, 1.0, 5.0}, 5.0, []int{1, 2, 4}},
		{"tie with front", []float64{5.0, 1.0, 5.0}, 5.0, []int{0, 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			max, indices := MaxSlice(test.values)
			if max != test.max {
				t.Errorf("expected max %v, got %v", test.max, max)
			}
			if len(indices) != len(test.indices) {
				t.Fatalf("expected indices %v, got %v", test.indices, indices)
			}
			for i := range indices {
				if indices[i] != test.indices[i] {
					t.Fatalf("expected indices %v, got %v", test.indices,
						indices)
				}
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3.0, -1.0, 2.0); got != -1.0 {
		t.Errorf("expected -1, got %v", got)
	}
	if got := Max(3.0, -1.0, 2.0); got != 3.0 {
		t.Errorf("expected 3, got %v", got)
	}
}
