package kernel

import (
	"math"
	"testing"
)

func TestSupport(t *testing.T) {
	cases := []struct {
		spec Spec
		want int
	}{
		{Spec{Mode: ModeBilinear}, 1},
		{Spec{Mode: ModeBicubic}, 2},
		{Spec{Mode: ModeSpline16}, 2},
		{Spec{Mode: ModeSpline36}, 3},
		{Spec{Mode: ModeSpline64}, 4},
		{Spec{Mode: ModeLanczos, Taps: 3}, 3},
		{Spec{Mode: ModeLanczos, Taps: 5}, 5},
		{Spec{Mode: ModeCustom, Taps: 2}, 2},
		{Spec{Mode: Mode(99)}, 0},
	}
	for _, c := range cases {
		if got := c.spec.Support(); got != c.want {
			t.Errorf("Support(%v) = %d, want %d", c.spec.Mode, got, c.want)
		}
	}
}

func TestBilinearWeight(t *testing.T) {
	ev := NewEvaluator(Spec{Mode: ModeBilinear})
	cases := []struct{ d, want float64 }{
		{0, 1},
		{0.25, 0.75},
		{-0.25, 0.75},
		{0.5, 0.5},
		{1, 0},
		{1.5, 0},
	}
	for _, c := range cases {
		if got := ev.Weight(c.d); math.Abs(got-c.want) > 1e-15 {
			t.Errorf("bilinear(%v) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestBicubicWeight(t *testing.T) {
	// Catmull-Rom: b=0, c=0.5 interpolates, so the kernel is 1 at 0 and 0 at
	// every other integer.
	ev := NewEvaluator(Spec{Mode: ModeBicubic, B: 0, C: 0.5})
	if got := ev.Weight(0); math.Abs(got-1) > 1e-15 {
		t.Errorf("catmull-rom(0) = %v, want 1", got)
	}
	for _, d := range []float64{1, -1, 2, -2} {
		if got := ev.Weight(d); math.Abs(got) > 1e-15 {
			t.Errorf("catmull-rom(%v) = %v, want 0", d, got)
		}
	}

	// B-spline: b=1, c=0 is non-negative everywhere.
	bs := NewEvaluator(Spec{Mode: ModeBicubic, B: 1, C: 0})
	for d := -2.0; d <= 2.0; d += 0.125 {
		if bs.Weight(d) < 0 {
			t.Errorf("b-spline(%v) < 0", d)
		}
	}
	if got := bs.Weight(0); math.Abs(got-4.0/6.0) > 1e-15 {
		t.Errorf("b-spline(0) = %v, want 2/3", got)
	}
}

func TestLanczosWeight(t *testing.T) {
	ev := NewEvaluator(Spec{Mode: ModeLanczos, Taps: 3})
	if got := ev.Weight(0); got != 1 {
		t.Errorf("lanczos3(0) = %v, want 1", got)
	}
	for _, d := range []float64{1, 2, -1, -2} {
		if got := ev.Weight(d); math.Abs(got) > 1e-15 {
			t.Errorf("lanczos3(%v) = %v, want 0", d, got)
		}
	}
	if got := ev.Weight(3); got != 0 {
		t.Errorf("lanczos3(3) = %v, want 0 outside support", got)
	}
	if got := ev.Weight(0.5); got <= 0 || got >= 1 {
		t.Errorf("lanczos3(0.5) = %v, want in (0, 1)", got)
	}
}

func TestSplineWeights(t *testing.T) {
	for _, mode := range []Mode{ModeSpline16, ModeSpline36, ModeSpline64} {
		ev := NewEvaluator(Spec{Mode: mode})
		if got := ev.Weight(0); math.Abs(got-1) > 1e-14 {
			t.Errorf("%v(0) = %v, want 1", mode, got)
		}
		support := Spec{Mode: mode}.Support()
		for d := 1; d < support; d++ {
			if got := ev.Weight(float64(d)); math.Abs(got) > 1e-13 {
				t.Errorf("%v(%d) = %v, want 0 at integer offsets", mode, d, got)
			}
		}
		if got := ev.Weight(float64(support)); got != 0 {
			t.Errorf("%v(%d) = %v, want 0 outside support", mode, support, got)
		}
		// The pieces must join continuously.
		for b := 1; b < support; b++ {
			lo := ev.Weight(float64(b) - 1e-9)
			hi := ev.Weight(float64(b) + 1e-9)
			if math.Abs(lo-hi) > 1e-7 {
				t.Errorf("%v discontinuous at %d: %v vs %v", mode, b, lo, hi)
			}
		}
	}
}

func TestSpline16Exact(t *testing.T) {
	ev := NewEvaluator(Spec{Mode: ModeSpline16})
	// Direct evaluation of the first piece at 0.5.
	x := 0.5
	want := 1.0 - (1.0 / 5.0 * x) - (9.0 / 5.0 * (x * x)) + x*x*x
	if got := ev.Weight(0.5); got != want {
		t.Errorf("spline16(0.5) = %v, want %v", got, want)
	}
}

func TestCustomCache(t *testing.T) {
	calls := 0
	ev := NewEvaluator(Spec{
		Mode: ModeCustom,
		Taps: 2,
		Custom: func(x float64) float64 {
			calls++
			return math.Max(0, 1-math.Abs(x)/2)
		},
	})

	a := ev.Weight(0.75)
	b := ev.Weight(0.75)
	if a != b {
		t.Fatalf("cached value differs: %v vs %v", a, b)
	}
	if calls != 1 {
		t.Fatalf("custom kernel called %d times for one distinct input", calls)
	}
	ev.Weight(-0.75)
	if calls != 2 {
		t.Fatalf("custom kernel called %d times for two distinct inputs", calls)
	}
	if ev.NonNumeric() {
		t.Fatal("NonNumeric set for a well behaved kernel")
	}
}

func TestCustomNonNumeric(t *testing.T) {
	ev := NewEvaluator(Spec{
		Mode:   ModeCustom,
		Taps:   1,
		Custom: func(x float64) float64 { return math.NaN() },
	})
	if got := ev.Weight(0.5); got != 0 {
		t.Fatalf("non-numeric custom weight = %v, want 0", got)
	}
	if !ev.NonNumeric() {
		t.Fatal("NonNumeric not set after NaN result")
	}
}
