package pathapprox

// ApproximateLinear returns points unchanged: a linear segment already is
// its own polyline.
func ApproximateLinear(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	copy(out, points)
	return out
}
