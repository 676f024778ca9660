package osuhits

// stackDistanceThreshold is the playfield-pixel radius, before CS
// scaling, within which two objects are considered to be at the same
// spot for stacking purposes.
const stackDistanceThreshold = 3.0

// isStartEvent reports whether t is the kind of event a stack can begin
// on: the first click of a circle, slider or spinner.
func isStartEvent(t HitObjectType) bool {
	switch t {
	case Circle, SliderHead, SpinnerStart:
		return true
	default:
		return false
	}
}

// isTargetCircle reports whether t is a kind of event that can itself be
// nudged by a stack offset as a "circle-like" object — a plain circle or
// a slider's head, never a spinner.
func isTargetCircle(t HitObjectType) bool {
	switch t {
	case Circle, SliderHead:
		return true
	default:
		return false
	}
}

// DifficultyRange maps a [0,10] difficulty value onto [min,max], pivoting
// at the game's usual midpoint of 5. Used here to turn ApproachRate into
// a stacking time window; shared rather than duplicated because nothing
// else in the original client's formula changes between the two uses.
func DifficultyRange(difficulty, min, mid, max float64) float64 {
	switch {
	case difficulty > 5:
		return mid + (max-mid)*(difficulty-5)/5
	case difficulty < 5:
		return mid - (mid-min)*(5-difficulty)/5
	default:
		return mid
	}
}

// calculateLegacyStackHeights implements the pre-v6 forward stacking
// pass: for each start event, scan forward within timeThreshold looking
// for coincident objects, bumping plain coincidences up-left and
// slider-endpoint coincidences down-right.
func calculateLegacyStackHeights(events []HitObject, timeThreshold float64, distanceThreshold float32) []int {
	heights := make([]int, len(events))
	dSquared := distanceThreshold * distanceThreshold

	i := 0
	var sliderPathEnd Vector2
	haveSliderPathEnd := false

	for i < len(events) {
		startIdx := i
		curr := events[startIdx]
		i++
		for i < len(events) && !isStartEvent(events[i].Type) {
			t := events[i].Type
			if !haveSliderPathEnd && (t == SliderRepeat || t == SliderTail) {
				sliderPathEnd = events[i].Position
				haveSliderPathEnd = true
			}
			i++
		}

		if heights[startIdx] != 0 && curr.Type != SliderHead {
			haveSliderPathEnd = false
			continue
		}

		haveLastStackTime := false
		var lastStackTime float64
		sliderStack := 0

		for j := i; j < len(events); j++ {
			if !isStartEvent(events[j].Type) {
				continue
			}
			if !haveLastStackTime {
				lastStackTime = events[j-1].Time
				haveLastStackTime = true
			}
			if events[j].Time-lastStackTime > timeThreshold {
				break
			}

			if squaredDistance(curr.Position, events[j].Position) < dSquared {
				heights[startIdx]++
				haveLastStackTime = false
			} else if haveSliderPathEnd && squaredDistance(sliderPathEnd, events[j].Position) < dSquared {
				sliderStack++
				heights[j] -= sliderStack
				haveLastStackTime = false
			}
		}
		haveSliderPathEnd = false
	}
	return heights
}

// calculateStackHeights implements the v6+ backward stacking pass: walk
// the event list from the end, and for every not-yet-stacked circle or
// slider head, walk further backward resolving the chain of coincident
// objects that should stack beneath (or, for sliders, beneath-and-right
// of) it.
func calculateStackHeights(events []HitObject, timeThreshold float64, distanceThreshold float32) []int {
	heights := make([]int, len(events))
	dSquared := distanceThreshold * distanceThreshold

	for i := len(events) - 1; i > 0; i-- {
		objectI := events[i]
		if heights[i] != 0 || !isTargetCircle(objectI.Type) {
			continue
		}
		n := i

		if objectI.Type == Circle {
			var sliderEndPos Vector2
			currentStackPos := objectI.Position
			currentStackTime := objectI.Time
			currentStackHeight := 0

			for {
				n--
				if n < 0 {
					break
				}
				if currentStackTime-events[n].Time > timeThreshold {
					break
				}
				if events[n].Type == SliderTail {
					sliderEndPos = events[n].Position
				}
				for !isStartEvent(events[n].Type) && n > 0 {
					n--
				}
				objectN := events[n]

				if objectN.Type == SliderHead && squaredDistance(sliderEndPos, currentStackPos) < dSquared {
					offset := currentStackHeight - heights[n] + 1
					for j := n + 1; j <= i; j++ {
						if isTargetCircle(events[j].Type) && squaredDistance(sliderEndPos, events[j].Position) < dSquared {
							heights[j] -= offset
						}
					}
					break
				} else if isTargetCircle(objectN.Type) {
					if squaredDistance(objectN.Position, currentStackPos) < dSquared {
						currentStackHeight++
						heights[n] = currentStackHeight
						currentStackPos = objectN.Position
						currentStackTime = objectN.Time
					}
				}
			}
		} else if objectI.Type == SliderHead {
			stackHeight := 0
			currentStackPos := objectI.Position
			currentStackTime := objectI.Time

			for {
				n--
				if n < 0 {
					break
				}
				endPosition := events[n].Position
				for !isStartEvent(events[n].Type) && n > 0 {
					n--
				}
				objectN := events[n]

				if currentStackTime-objectN.Time > timeThreshold {
					break
				}
				if squaredDistance(endPosition, currentStackPos) < dSquared {
					stackHeight++
					heights[n] = stackHeight
					currentStackPos = objectN.Position
					currentStackTime = objectN.Time
				}
			}
		}
	}
	return heights
}

func squaredDistance(a, b Vector2) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

// ApplyStacking computes and applies stack offsets to events in place,
// using the legacy forward pass for formatVersion < 6 and the modern
// backward pass otherwise. stackOffset is the per-height pixel nudge
// (negative X/Y, since stacked objects shift up and left).
func ApplyStacking(events []HitObject, formatVersion int, timeThreshold float64, stackOffset float32) {
	var heights []int
	if formatVersion < 6 {
		heights = calculateLegacyStackHeights(events, timeThreshold, stackDistanceThreshold)
	} else {
		heights = calculateStackHeights(events, timeThreshold, stackDistanceThreshold)
	}

	var totalOffset float32
	for i := range events {
		if isStartEvent(events[i].Type) {
			totalOffset = float32(heights[i]) * stackOffset
		}
		events[i].StackHeight = heights[i]
		events[i].Position.X += totalOffset
		events[i].Position.Y += totalOffset
	}
}

// ApplyStackingForBeatmap derives the stacking time window and per-height
// pixel offset from a beatmap's difficulty attributes and applies it to
// b.HitObjects.
func ApplyStackingForBeatmap(b *Beatmap) {
	timePreempt := DifficultyRange(b.Difficulty.ApproachRate, 1800, 1200, 450)
	timeThreshold := timePreempt * b.StackLeniency()

	scale := (1.0 - 0.7*(b.Difficulty.CircleSize-5)/5) / 2
	stackOffset := float32(scale * -6.4)

	ApplyStacking(b.HitObjects, b.FormatVersion, timeThreshold, stackOffset)
}
