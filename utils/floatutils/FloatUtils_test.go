package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, -1, 1, 0.5},
		{2, -1, 1, 1},
		{-2, -1, 1, -1},
		{-1, -1, 1, -1},
	}

	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.want {
			t.Errorf("Clip(%v, %v, %v) = %v, want %v", test.value,
				test.min, test.max, got, test.want)
		}
	}
}

func TestClipInterval(t *testing.T) {
	interval := r1.Interval{Min: -1, Max: 1}
	if got := ClipInterval(3, interval); got != 1 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestClipSlice(t *testing.T) {
	values := []float64{-2, 0, 2}
	clipped := ClipSlice(values, -1, 1)

	want := []float64{-1, 0, 1}
	for i := range want {
		if clipped[i] != want[i] {
			t.Errorf("index %v: got %v, want %v", i, clipped[i], want[i])
		}
	}
	if values[0] != -2 {
		t.Error("ClipSlice should not modify its argument")
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3, 1, 2); got != 1 {
		t.Errorf("Min = %v, want 1", got)
	}
	if got := Max(3, 1, 2); got != 3 {
		t.Errorf("Max = %v, want 3", got)
	}
}
