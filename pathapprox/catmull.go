package pathapprox

// catmullDetail is the number of subdivision steps per pair of consecutive
// control points; each step appends two polyline points.
const catmullDetail = 50

// ApproximateCatmull flattens a uniform Catmull-Rom chain. Each pair of
// consecutive control points contributes 2*catmullDetail samples, using the
// point before and after (clamped at the ends by mirroring the nearest
// real segment) as the spline's extra tangent-defining neighbours.
func ApproximateCatmull(points []Vec2) []Vec2 {
	if len(points) < 2 {
		return append([]Vec2(nil), points...)
	}

	out := make([]Vec2, 0, (len(points)-1)*catmullDetail*2)
	for i := 0; i < len(points)-1; i++ {
		v2 := points[i]
		v3 := points[i+1]
		v1 := v2.Scale(2).Sub(v3)
		if i > 0 {
			v1 = points[i-1]
		}
		v4 := v3.Scale(2).Sub(v2)
		if i < len(points)-2 {
			v4 = points[i+2]
		}

		for c := 0; c < catmullDetail; c++ {
			out = append(out, catmullPoint(v1, v2, v3, v4, float32(c)/catmullDetail))
			out = append(out, catmullPoint(v1, v2, v3, v4, float32(c+1)/catmullDetail))
		}
	}
	return out
}

func catmullPoint(v1, v2, v3, v4 Vec2, t float32) Vec2 {
	t2 := t * t
	t3 := t2 * t

	x := 0.5 * (2*v2.X + (-v1.X+v3.X)*t +
		(2*v1.X-5*v2.X+4*v3.X-v4.X)*t2 +
		(-v1.X+3*v2.X-3*v3.X+v4.X)*t3)
	y := 0.5 * (2*v2.Y + (-v1.Y+v3.Y)*t +
		(2*v1.Y-5*v2.Y+4*v3.Y-v4.Y)*t2 +
		(-v1.Y+3*v2.Y-3*v3.Y+v4.Y)*t3)

	return Vec2{X: x, Y: y}
}
