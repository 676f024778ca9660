// Package pathapprox turns a slider's typed control points into the flat
// polyline osuhits walks to place ticks. It mirrors sliders.go from the
// teacher repo — adaptive Bézier, circular arc, Catmull-Rom, linear — but
// generalizes the dispatch to the tagged multi-segment paths lazer-format
// beatmaps actually use.
package pathapprox

import "math"

// Vec2 is a 2-D playfield position using osu!'s own float32 precision;
// nothing in path approximation needs float64 for coordinates, only for
// the trigonometry inside the circular-arc fit.
type Vec2 struct {
	X, Y float32
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(f float32) Vec2 { return Vec2{a.X * f, a.Y * f} }

func (a Vec2) Dot(b Vec2) float32 { return a.X*b.X + a.Y*b.Y }

func (a Vec2) Length() float32 {
	return float32(math.Sqrt(float64(a.Dot(a))))
}

// Lerp returns the point t of the way from a to b, t usually in [0,1].
func Lerp(a, b Vec2, t float32) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// SegmentType tags which approximator a run of control points belongs to.
// None is only ever seen on a point that continues the previous run.
type SegmentType int

const (
	None SegmentType = iota
	Bezier
	Catmull
	Linear
	PerfectCircle
)

// ControlPoint is one vertex of a slider's path string. Tag is None unless
// this point opens a new segment — either because the format marked it
// with a new curve-type letter, or because it duplicates the position of
// the point before it (a "red anchor"), which osu! treats as an implicit
// segment boundary even without a type change.
type ControlPoint struct {
	Pos Vec2
	Tag SegmentType
}

// BuildPath expands a full slider path string's control points into one
// flat polyline, splitting on every non-None tag and gluing consecutive
// runs together at their shared boundary point.
func BuildPath(arena *Arena, points []ControlPoint) []Vec2 {
	n := len(points)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Vec2{points[0].Pos}
	}

	var out []Vec2
	i := 0
	for i < n-1 {
		k := i + 1
		for k < n && points[k].Tag == None {
			k++
		}
		if k >= n {
			k = n - 1
		}
		run := points[i : k+1]
		// A tagged boundary that duplicates the point before it (a red
		// anchor) is shared through that earlier point, so the zero-length
		// step onto it is left out of this run.
		if last := len(run) - 1; last > 1 && run[last].Tag != None && run[last].Pos == run[last-1].Pos {
			run = run[:last]
		}
		pos := make([]Vec2, len(run))
		for j, p := range run {
			pos[j] = p.Pos
		}
		seg := approximateSegment(arena, run[0].Tag, pos)
		if len(out) > 0 && len(seg) > 0 && out[len(out)-1] == seg[0] {
			seg = seg[1:]
		}
		out = append(out, seg...)
		i = k
	}
	return out
}

func approximateSegment(arena *Arena, tag SegmentType, points []Vec2) []Vec2 {
	switch tag {
	case Catmull:
		return ApproximateCatmull(points)
	case Linear:
		return ApproximateLinear(points)
	case PerfectCircle:
		if len(points) != 3 {
			// Not a well-formed triplet, nothing arc-shaped to fit.
			return ApproximateBezier(arena, points)
		}
		arc, ok := ApproximateCircularArc(points[0], points[1], points[2])
		if !ok {
			// Collinear control points: no circle through them, degrade to
			// the straight line they actually describe.
			return ApproximateLinear(points)
		}
		return arc
	default:
		return ApproximateBezier(arena, points)
	}
}
