package pathapprox

import "testing"

func TestApproximateBezierEndpointsExact(t *testing.T) {
	arena := &Arena{}
	controls := []Vec2{{0, 0}, {50, 100}, {100, 0}}
	out := ApproximateBezier(arena, controls)
	if len(out) < 2 {
		t.Fatalf("expected a multi-point polyline, got %v", out)
	}
	if out[0] != controls[0] {
		t.Fatalf("start point not exact: got %v want %v", out[0], controls[0])
	}
	if out[len(out)-1] != controls[len(controls)-1] {
		t.Fatalf("end point not exact: got %v want %v", out[len(out)-1], controls[len(controls)-1])
	}
}

func TestApproximateBezierLinearControlsStayStraight(t *testing.T) {
	arena := &Arena{}
	controls := []Vec2{{0, 0}, {10, 0}, {20, 0}}
	out := ApproximateBezier(arena, controls)
	for _, p := range out {
		if p.Y != 0 {
			t.Fatalf("collinear control points should approximate a straight line, got off-axis point %v", p)
		}
	}
}

func TestApproximateBezierReusesArena(t *testing.T) {
	arena := &Arena{}
	ApproximateBezier(arena, []Vec2{{0, 0}, {10, 10}, {20, 0}})
	firstUsed := arena.used
	arena.Reset()
	if arena.used != 0 {
		t.Fatalf("Reset should zero usage, got %d", arena.used)
	}
	ApproximateBezier(arena, []Vec2{{0, 0}, {10, 10}, {20, 0}})
	if arena.used != firstUsed {
		t.Fatalf("identical input should allocate identically after reset: got %d want %d", arena.used, firstUsed)
	}
}
