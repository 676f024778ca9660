package osuhits

import (
	"math"
	"strconv"
	"strings"

	"osuhits/pathapprox"
)

// firstLazerFormatVersion is the beatmap format version at which a
// duplicate adjacent control point inside a Catmull slider stopped being
// treated as a no-op and started (like every other curve type) opening a
// new segment.
const firstLazerFormatVersion = 128

// legacyLastTickOffset is the fixed time, in ms, the classic client backs
// off from a slide's natural end when placing the scoring-compatible
// "legacy last tick" object.
const legacyLastTickOffset = 36.0

// rowKind distinguishes the physical hit object kinds a beatmap line can
// describe. Mania hold notes carry no meaning for any ruleset this
// package targets; a row describing one is rejected with a ParseError.
type rowKind int

const (
	rowCircle rowKind = iota
	rowSlider
	rowSpinner
)

// hitObjectRow is one physical line of a [HitObjects] section, after
// column parsing but before slider expansion.
type hitObjectRow struct {
	Kind     rowKind
	Time     float64
	Position Vector2
	NewCombo bool

	ControlPoints []pathapprox.ControlPoint // slider only; head-relative, [0] == (0,0)
	Slides        int                       // slider only
	Length        float64                   // slider only; <= 0 means "use the path's own length"

	EndTime float64 // spinner only

	// LineNo and LineText anchor a row back to its source line so that an
	// out-of-order check downstream of parsing (the scanner has long since
	// moved on) can still raise a caret-pointed ParseError.
	LineNo   int
	LineText string
}

func segmentTypeFromByte(b byte) (pathapprox.SegmentType, bool) {
	switch b {
	case 'B':
		return pathapprox.Bezier, true
	case 'C':
		return pathapprox.Catmull, true
	case 'L':
		return pathapprox.Linear, true
	case 'P':
		return pathapprox.PerfectCircle, true
	default:
		return pathapprox.None, false
	}
}

// parseSliderPathString turns a slider's path column ("B|100:100|..." or
// a lazer-style multi-segment path with inline type letters) into the
// rebased control-point list BuildPath expects: head first, every other
// point relative to it.
func parseSliderPathString(formatVersion int, head Vector2, spec string) ([]pathapprox.ControlPoint, error) {
	tokens := strings.Split(spec, "|")
	if len(tokens) == 0 || len(tokens[0]) != 1 {
		return nil, &ParseError{Msg: "slider path is missing its leading curve type"}
	}
	curveType, ok := segmentTypeFromByte(tokens[0][0])
	if !ok {
		return nil, &ParseError{Msg: "unknown slider curve type " + tokens[0]}
	}

	points := []pathapprox.ControlPoint{{Pos: head, Tag: curveType}}
	pendingTag := pathapprox.None

	for _, tok := range tokens[1:] {
		if len(tok) == 1 {
			if t, ok := segmentTypeFromByte(tok[0]); ok {
				curveType = t
				pendingTag = t
				continue
			}
		}

		pos, err := parseXY(tok)
		if err != nil {
			return nil, err
		}

		tag := pendingTag
		pendingTag = pathapprox.None

		last := points[len(points)-1]
		if tag == pathapprox.None && pos == last.Pos {
			preLazerCatmull := curveType == pathapprox.Catmull && formatVersion < firstLazerFormatVersion
			if !preLazerCatmull {
				tag = curveType
			}
		}
		points = append(points, pathapprox.ControlPoint{Pos: pos, Tag: tag})
	}

	for i := range points {
		points[i].Pos = points[i].Pos.Sub(head)
	}
	return points, nil
}

func parseXY(tok string) (pathapprox.Vec2, error) {
	x, y, ok := strings.Cut(tok, ":")
	if !ok {
		return pathapprox.Vec2{}, &ParseError{Msg: "malformed slider path point " + tok}
	}
	xf, err := strconv.ParseFloat(strings.TrimSpace(x), 32)
	if err != nil {
		return pathapprox.Vec2{}, &ParseError{Msg: "malformed slider path point " + tok}
	}
	yf, err := strconv.ParseFloat(strings.TrimSpace(y), 32)
	if err != nil {
		return pathapprox.Vec2{}, &ParseError{Msg: "malformed slider path point " + tok}
	}
	return pathapprox.Vec2{X: float32(xf), Y: float32(yf)}, nil
}

// sliderTick is one sample of a slider's path, as a time offset from the
// slide's own start and the absolute playfield position at that time.
type sliderTick struct {
	time float64
	pos  Vector2
}

func polylineLength(path []Vector2) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += float64(path[i].Sub(path[i-1]).Length())
	}
	return total
}

// legacyLastTickDistanceAndTime computes the distance along the path,
// and the time offset from the slider head, of the classic client's
// "legacy last tick" — a scoring-compatibility object placed shortly
// before the final slide's natural end rather than on a clean multiple of
// the tick spacing.
func legacyLastTickDistanceAndTime(length float64, slides int, tickDistance, tickDuration float64) (distance, time float64) {
	spanDuration := length * tickDuration / tickDistance
	finalSpanIndex := slides - 1
	finalSpanStartTime := float64(finalSpanIndex) * spanDuration
	totalDuration := float64(slides) * spanDuration
	finalSpanEndTime := math.Max(totalDuration/2, (finalSpanStartTime+spanDuration)-legacyLastTickOffset)

	endTimeMin := finalSpanEndTime / spanDuration
	if math.Mod(endTimeMin, 2) >= 1 {
		endTimeMin = 1 - math.Mod(endTimeMin, 1)
	} else {
		endTimeMin = math.Mod(endTimeMin, 1)
	}

	return endTimeMin * length, finalSpanEndTime
}

// calculateTicks walks path (already in absolute playfield coordinates)
// accumulating arc length, placing one tick every tickDistance pixels and
// locating a single legacy last tick near the end of the final slide.
// The very last path point always forces a tick regardless of spacing; a
// tick that lands within minDistanceFromEnd of the slider's end snaps
// onto the end exactly instead, matching the reference tick generator.
func calculateTicks(path []Vector2, length float64, slides int, tickDistance, tickDuration float64) (ticks []sliderTick, legacy sliderTick, err error) {
	if len(path) == 0 {
		return nil, sliderTick{}, &ParseError{Msg: "slider has an empty path"}
	}
	ticks = append(ticks, sliderTick{time: 0, pos: path[0]})

	minDistanceFromEnd := 10 * tickDistance / tickDuration
	legacyDistance, legacyTime := legacyLastTickDistanceAndTime(length, slides, tickDistance, tickDuration)

	nextTick := tickDistance
	nextTime := tickDuration
	end := false
	haveLegacy := false

	checkSliderEnd := func() {
		if nextTick+minDistanceFromEnd >= length {
			nextTick = length
			nextTime = length * tickDuration / tickDistance
			end = true
		}
	}
	checkSliderEnd()

	currentLength := 0.0
	last := len(path) - 1
	for i := 1; i <= last; i++ {
		currentPoint := path[i-1]
		nextPoint := path[i]
		segLen := float64(nextPoint.Sub(currentPoint).Length())
		nextLength := currentLength + segLen

		computeTick := func(time, distance float64) sliderTick {
			if segLen < 1e-6 {
				return sliderTick{time: time, pos: currentPoint}
			}
			t := float32((distance - currentLength) / segLen)
			return sliderTick{time: time, pos: pathapprox.Lerp(currentPoint, nextPoint, t)}
		}

		if !haveLegacy && (legacyDistance <= nextLength || i == last) {
			legacy = computeTick(legacyTime, legacyDistance)
			haveLegacy = true
		}

		for nextLength > nextTick || i == last {
			ticks = append(ticks, computeTick(nextTime, nextTick))
			if end {
				if !haveLegacy {
					return nil, sliderTick{}, &ParseError{Msg: "legacy last tick lands past the end of the slider"}
				}
				return ticks, legacy, nil
			}
			nextTick += tickDistance
			nextTime += tickDuration
			checkSliderEnd()
		}
		currentLength = nextLength
	}
	return nil, sliderTick{}, &ParseError{Msg: "slider path never reached its own end"}
}

// expandSlider turns one parsed slider row into its full event sequence:
// a head, interior ticks, one slider_repeat per slide boundary, a final
// legacy_last_tick/tail pair, in time order.
func expandSlider(row hitObjectRow, cursor *TimingCursor, formatVersion int, arena *pathapprox.Arena) ([]HitObject, error) {
	if err := cursor.Advance(row.Time); err != nil {
		return nil, err
	}
	tickDistance := cursor.TickDistance(formatVersion)
	tickDuration := cursor.TickDuration(formatVersion)

	polyline := pathapprox.BuildPath(arena, row.ControlPoints)
	absolute := make([]Vector2, len(polyline))
	for i, p := range polyline {
		absolute[i] = p.Add(row.Position)
	}

	length := row.Length
	if length <= 0 {
		length = polylineLength(absolute)
	}
	slides := row.Slides
	if slides < 1 {
		slides = 1
	}

	events := make([]HitObject, 0, slides*4+2)
	events = append(events, HitObject{Type: SliderHead, Time: row.Time, Position: row.Position, NewCombo: row.NewCombo})

	if tickDistance == 0 || tickDuration == 0 || length == 0 {
		events = append(events, HitObject{Type: SliderLegacyLastTick, Time: row.Time, Position: row.Position})
		events = append(events, HitObject{Type: SliderTail, Time: row.Time, Position: row.Position})
		return events, nil
	}

	ticks, legacy, err := calculateTicks(absolute, length, slides, tickDistance, tickDuration)
	if err != nil {
		return nil, err
	}

	slideDuration := tickDuration * length / tickDistance
	last := len(ticks) - 1

	emitBoundary := func(isFinalSlide bool, repeatTime float64, repeatPos Vector2) {
		if isFinalSlide {
			legacyEvent := HitObject{Type: SliderLegacyLastTick, Time: row.Time + legacy.time, Position: legacy.pos}
			// The legacy last tick never precedes the event emitted just
			// before it (the final slide's last interior tick, or the
			// preceding repeat or head).
			if prev := events[len(events)-1]; prev.Time > legacyEvent.Time {
				legacyEvent.Time = prev.Time
				legacyEvent.Position = prev.Position
			}
			events = append(events, legacyEvent)
			events = append(events, HitObject{Type: SliderTail, Time: repeatTime, Position: repeatPos})
		} else {
			events = append(events, HitObject{Type: SliderRepeat, Time: repeatTime, Position: repeatPos})
		}
	}

	for repeat := 0; repeat < slides; repeat += 2 {
		slideStart := row.Time + float64(repeat)*slideDuration
		for i := 1; i <= last; i++ {
			t := ticks[i]
			if i != last {
				events = append(events, HitObject{Type: SliderTick, Time: slideStart + t.time, Position: t.pos})
			} else {
				emitBoundary(repeat == slides-1, slideStart+t.time, t.pos)
			}
		}

		if repeat+1 < slides {
			slideEnd := row.Time + float64(repeat+2)*slideDuration
			for i := last - 1; i >= 0; i-- {
				t := ticks[i]
				if i != 0 {
					events = append(events, HitObject{Type: SliderTick, Time: slideEnd - t.time, Position: t.pos})
				} else {
					emitBoundary(repeat+1 == slides-1, slideEnd-t.time, t.pos)
				}
			}
		}
	}

	return events, nil
}
