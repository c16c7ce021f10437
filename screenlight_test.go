package lantern

import (
	"math"
	"testing"
)

func TestShadowTapColumnsWrapAtSeam(t *testing.T) {
	// The screen-light shader samples the shadow-map row at the pixel's
	// angle column and its two neighbors, wrapping across the -pi/pi seam
	// where column 0 and the last column are adjacent.
	const w = 64.0
	column := func(angle float64) float64 {
		return (angle/(2*math.Pi) + 0.5) * w
	}
	tap := func(x float64) float64 {
		return math.Mod(math.Mod(x, w)+w, w)
	}

	// a pixel just short of pi: the +1 neighbor crosses into column 0
	x := column(math.Pi - 0.001)
	if got := tap(x + 1); got >= 1 {
		t.Errorf("tap(x+1) = %f near +pi, want wrapped below 1", got)
	}

	// a pixel just past -pi: the -1 neighbor crosses into the last column
	x = column(-math.Pi + 0.001)
	if got := tap(x - 1); got < w-1 {
		t.Errorf("tap(x-1) = %f near -pi, want wrapped above %f", got, w-1)
	}

	// angle exactly pi maps to the row width and wraps to column 0
	if got := tap(column(math.Pi)); got != 0 {
		t.Errorf("tap at pi = %f, want 0", got)
	}

	// every tap stays inside the row for a sweep of angles
	for a := -math.Pi; a <= math.Pi; a += math.Pi / 7 {
		x := column(a)
		for _, v := range []float64{tap(x - 1), tap(x), tap(x + 1)} {
			if v < 0 || v >= w {
				t.Fatalf("tap %f out of row [0, %f) at angle %f", v, w, a)
			}
		}
	}
}
