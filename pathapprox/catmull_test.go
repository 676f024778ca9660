package pathapprox

import "testing"

func TestApproximateCatmullStartsAtFirstControlPoint(t *testing.T) {
	out := ApproximateCatmull([]Vec2{{0, 0}, {10, 10}, {20, 0}, {30, 10}})
	if len(out) == 0 {
		t.Fatal("expected a non-empty polyline")
	}
	if out[0] != (Vec2{0, 0}) {
		t.Fatalf("first sample should land exactly on the first control point, got %v", out[0])
	}
}

func TestApproximateCatmullSampleCount(t *testing.T) {
	points := []Vec2{{0, 0}, {10, 10}, {20, 0}, {30, 10}}
	out := ApproximateCatmull(points)
	want := (len(points) - 1) * catmullDetail * 2
	if len(out) != want {
		t.Fatalf("got %d samples, want %d", len(out), want)
	}
}

func TestApproximateCatmullTooFewPointsPassesThrough(t *testing.T) {
	out := ApproximateCatmull([]Vec2{{5, 5}})
	if len(out) != 1 || out[0] != (Vec2{5, 5}) {
		t.Fatalf("a single point should pass through unchanged, got %v", out)
	}
}
