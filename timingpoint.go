package osuhits

import "math"

// defaultBeatLength is the fallback tempo (60 BPM) used before the first
// timing point takes effect.
const defaultBeatLength = 1000.0

// TimingPoint is one row of a [TimingPoints] section. Uninherited points
// set the tempo (BeatLength, ms per beat) and the beat meter; inherited
// points instead carry a slider-velocity multiplier that scales slider
// travel speed and tick spacing until the next timing point — of either
// kind — resets it back to 1.0. SampleSet, SampleIndex, Volume and
// Effects are round-tripped for fidelity but never branched on by
// anything in this package.
type TimingPoint struct {
	Time           float64
	BeatLength     float64 // meaningful only when Uninherited
	SliderVelocity float64 // meaningful only when !Uninherited; a multiplier
	Uninherited    bool
	Meter          int
	SampleSet      int
	SampleIndex    int
	Volume         int
	Effects        int
}

// clampBeatLength enforces the [6, 60000] ms/beat range a handful of
// malformed maps in the wild violate.
func clampBeatLength(ms float64) float64 {
	switch {
	case ms < 6:
		return 6
	case ms > 60000:
		return 60000
	default:
		return ms
	}
}

// clampSliderVelocity enforces the [0.1, 10.0] multiplier range inherited
// points are allowed to express.
func clampSliderVelocity(mult float64) float64 {
	switch {
	case mult < 0.1:
		return 0.1
	case mult > 10.0:
		return 10.0
	default:
		return mult
	}
}

// TimingCursor walks a beatmap's sorted timing points forward in lockstep
// with the hit objects being processed. It mirrors the reference engine's
// TimingPoints exactly: Advance is monotonic (an out-of-order call is
// rejected, catching "aspire" maps that abuse backwards timing points),
// and every distinct timestamp resets the slider-velocity multiplier to
// 1.0 before reapplying whatever that timestamp's own points say.
type TimingCursor struct {
	points    []TimingPoint
	nextIndex int

	currentTime    float64
	beatLength     float64
	sliderVelocity float64

	baseSliderVelocity float64 // SliderMultiplier from [Difficulty]
	sliderTickRate     float64
}

// NewTimingCursor wraps points, which must already be sorted by Time.
func NewTimingCursor(points []TimingPoint, sliderMultiplier, sliderTickRate float64) *TimingCursor {
	c := &TimingCursor{
		points:             points,
		currentTime:        math.Inf(-1),
		beatLength:         defaultBeatLength,
		sliderVelocity:     1.0,
		baseSliderVelocity: sliderMultiplier,
		sliderTickRate:     sliderTickRate,
	}
	if len(points) > 0 && points[0].Uninherited {
		c.beatLength = points[0].BeatLength
	}
	return c
}

// Advance moves the cursor's current time forward to t, folding in every
// timing point at or before t that has not yet been applied. It reports
// an error if t precedes the time of a previous Advance call.
func (c *TimingCursor) Advance(t float64) error {
	if c.currentTime > t {
		return &ParseError{Msg: "timing points accessed non-sequentially, probably an aspire map"}
	}
	c.currentTime = t

	for c.nextIndex < len(c.points) && c.points[c.nextIndex].Time <= t {
		groupTime := c.points[c.nextIndex].Time
		c.sliderVelocity = 1.0
		for {
			p := c.points[c.nextIndex]
			c.nextIndex++
			if p.Uninherited {
				c.beatLength = p.BeatLength
			} else {
				c.sliderVelocity = p.SliderVelocity
			}
			if c.nextIndex >= len(c.points) || c.points[c.nextIndex].Time != groupTime {
				break
			}
		}
	}
	return nil
}

// BeatLength returns the tempo, in ms per beat, active as of the last
// Advance call.
func (c *TimingCursor) BeatLength() float64 { return c.beatLength }

// SliderVelocityMultiplier returns the inherited-point multiplier active
// as of the last Advance call.
func (c *TimingCursor) SliderVelocityMultiplier() float64 { return c.sliderVelocity }

// TickDistance returns the playfield-pixel spacing between consecutive
// slider ticks. Format versions before 8 never let the inherited
// slider-velocity multiplier reach tick spacing, only travel duration.
func (c *TimingCursor) TickDistance(formatVersion int) float64 {
	if formatVersion >= 8 {
		return 100 * c.sliderVelocity * c.baseSliderVelocity / c.sliderTickRate
	}
	return 100 * c.baseSliderVelocity / c.sliderTickRate
}

// TickDuration returns the time, in ms, a slider takes to travel one
// TickDistance. Pre-8 format versions fold the slider-velocity multiplier
// in here instead of into TickDistance.
func (c *TimingCursor) TickDuration(formatVersion int) float64 {
	if formatVersion >= 8 {
		return c.beatLength / c.sliderTickRate
	}
	return c.beatLength / (c.sliderTickRate * c.sliderVelocity)
}
