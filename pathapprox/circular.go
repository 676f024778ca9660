package pathapprox

import "math"

// arcTolerance is the sagitta tolerance, in osu! pixels, used to decide how
// many points a circular arc needs: the largest the true arc is allowed to
// bulge away from its chords.
const arcTolerance = 0.1

// collinearEpsilon is the minimum (twice-signed-area) cross product below
// which three control points are treated as collinear rather than as
// defining a circle.
const collinearEpsilon = 1e-3

// ApproximateCircularArc fits the circle through p1, p2, p3 and samples it
// into evenly spaced points sweeping from p1 through p2 to p3. ok is false
// when the three points are collinear, in which case there is no circle to
// fit and the caller should fall back to a straight line.
func ApproximateCircularArc(p1, p2, p3 Vec2) (points []Vec2, ok bool) {
	a, b, c := p1, p2, p3

	cross := float64(b.Y-a.Y)*float64(c.X-a.X) - float64(b.X-a.X)*float64(c.Y-a.Y)
	if math.Abs(cross) < collinearEpsilon {
		return nil, false
	}

	aSq := float64(a.X)*float64(a.X) + float64(a.Y)*float64(a.Y)
	bSq := float64(b.X)*float64(b.X) + float64(b.Y)*float64(b.Y)
	cSq := float64(c.X)*float64(c.X) + float64(c.Y)*float64(c.Y)

	d := 2 * (float64(a.X)*float64(b.Y-c.Y) + float64(b.X)*float64(c.Y-a.Y) + float64(c.X)*float64(a.Y-b.Y))

	centreX := (aSq*float64(b.Y-c.Y) + bSq*float64(c.Y-a.Y) + cSq*float64(a.Y-b.Y)) / d
	centreY := (aSq*float64(c.X-b.X) + bSq*float64(a.X-c.X) + cSq*float64(b.X-a.X)) / d

	dax, day := float64(a.X)-centreX, float64(a.Y)-centreY
	radius := math.Hypot(dax, day)

	thetaStart := math.Atan2(day, dax)
	thetaEnd := math.Atan2(float64(c.Y)-centreY, float64(c.X)-centreX)
	for thetaEnd < thetaStart {
		thetaEnd += 2 * math.Pi
	}
	thetaRange := thetaEnd - thetaStart

	direction := 1.0
	acx, acy := float64(c.X)-float64(a.X), float64(c.Y)-float64(a.Y)
	orthoX, orthoY := acy, -acx
	abx, aby := float64(b.X)-float64(a.X), float64(b.Y)-float64(a.Y)
	if orthoX*abx+orthoY*aby < 0 {
		direction = -1
		thetaRange = 2*math.Pi - thetaRange
	}

	var n int
	if arcTolerance < 2*radius {
		pointCount := thetaRange / (2 * math.Acos(1-arcTolerance/radius))
		n = int(math.Ceil(pointCount))
		if n < 2 {
			n = 2
		}
	} else {
		n = 2
	}

	points = make([]Vec2, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		theta := thetaStart + direction*frac*thetaRange
		points[i] = Vec2{
			X: float32(centreX + radius*math.Cos(theta)),
			Y: float32(centreY + radius*math.Sin(theta)),
		}
	}
	// The arc's endpoints are the control points themselves, not their
	// trigonometric reconstruction, so adjacent segments join exactly.
	points[0] = p1
	points[n-1] = p3
	return points, true
}
