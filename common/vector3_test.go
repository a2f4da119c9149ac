package common

import (
	"math"
	"testing"
)

func TestVector3Equals(t *testing.T) {
	cases := []struct {
		name string
		a, b Vector3
		want bool
	}{
		{"identical", Vec3(1, 2, 3), Vec3(1, 2, 3), true},
		{"within_epsilon", Vec3(1, 2, 3), Vec3(1+Epsilon/2, 2, 3), true},
		{"outside_epsilon", Vec3(1, 2, 3), Vec3(1+Epsilon*2, 2, 3), false},
		{"nan_never_equal", Vec3(math.NaN(), 0, 0), Vec3(math.NaN(), 0, 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Equals(c.b); got != c.want {
				t.Fatalf("%v.Equals(%v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestVector3Normalized(t *testing.T) {
	if got := Vec3(3, 0, 4).Normalized(); !got.Equals(Vec3(0.6, 0, 0.8)) {
		t.Fatalf("expected (0.6, 0, 0.8), got %v", got)
	}
	if got := Vec3(Epsilon/10, 0, 0).Normalized(); got != Zero {
		t.Fatalf("near-zero vector should normalize to zero, got %v", got)
	}
}

func TestVector3Arithmetic(t *testing.T) {
	a := Vec3(1, 2, 3)
	b := Vec3(-2, 0.5, 4)
	if got := a.Add(b); got != Vec3(-1, 2.5, 7) {
		t.Fatalf("Add: got %v", got)
	}
	if got := a.Sub(b); got != Vec3(3, 1.5, -1) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := a.Neg(); got != Vec3(-1, -2, -3) {
		t.Fatalf("Neg: got %v", got)
	}
	if got := a.Scale(2); got != Vec3(2, 4, 6) {
		t.Fatalf("Scale: got %v", got)
	}
	if got := a.Sum(); got != 6 {
		t.Fatalf("Sum: got %v", got)
	}
	if got := Distance(Vec3(0, 0, 0), Vec3(3, 4, 0)); got != 5 {
		t.Fatalf("Distance: got %v", got)
	}
	if got := Vec3(1, 2, 2).SqrMagnitude(); got != 9 {
		t.Fatalf("SqrMagnitude: got %v", got)
	}
}

func TestVector3IsFinite(t *testing.T) {
	if !Vec3(1, -1, 0).IsFinite() {
		t.Fatalf("finite vector reported non-finite")
	}
	if Vec3(math.Inf(1), 0, 0).IsFinite() || Vec3(0, math.NaN(), 0).IsFinite() {
		t.Fatalf("non-finite vector reported finite")
	}
}

func TestMoveTowards(t *testing.T) {
	if got := MoveTowards(Zero, Vec3(10, 0, 0), 3); got != Vec3(3, 0, 0) {
		t.Fatalf("expected partial step, got %v", got)
	}
	if got := MoveTowards(Zero, Vec3(1, 0, 0), 3); got != Vec3(1, 0, 0) {
		t.Fatalf("expected to land on target, got %v", got)
	}
}

func TestRoundingHelpers(t *testing.T) {
	rounds := []struct {
		in   float64
		want int
	}{
		{0.4, 0}, {0.5, 0}, {1.5, 2}, {2.5, 2}, {3.6, 4}, {-0.5, 0},
	}
	for _, r := range rounds {
		if got := RoundToInt(r.in); got != r.want {
			t.Fatalf("RoundToInt(%v) = %d, want %d", r.in, got, r.want)
		}
	}

	clamps := []struct {
		in, want float64
	}{
		{-3, 0}, {0.25, 0.25}, {7, 1}, {math.NaN(), 0},
	}
	for _, c := range clamps {
		if got := Clamp01(c.in); got != c.want {
			t.Fatalf("Clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
