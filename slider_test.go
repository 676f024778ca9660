package osuhits

import (
	"testing"

	"osuhits/pathapprox"
)

func straightSliderRow(time float64, length float64, slides int) hitObjectRow {
	return hitObjectRow{
		Kind:     rowSlider,
		Time:     time,
		Position: Vector2{X: 0, Y: 0},
		ControlPoints: []pathapprox.ControlPoint{
			{Pos: Vector2{X: 0, Y: 0}, Tag: pathapprox.Linear},
			{Pos: Vector2{X: float32(length), Y: 0}},
		},
		Slides: slides,
		Length: length,
	}
}

func countEvents(events []HitObject, want HitObjectType) int {
	n := 0
	for _, e := range events {
		if e.Type == want {
			n++
		}
	}
	return n
}

func TestExpandSliderEventSequenceSingleSlide(t *testing.T) {
	cursor := NewTimingCursor([]TimingPoint{{Time: 0, BeatLength: 500, Uninherited: true}}, 1.0, 1.0)
	arena := &pathapprox.Arena{}

	events, err := expandSlider(straightSliderRow(0, 300, 1), cursor, 14, arena)
	if err != nil {
		t.Fatal(err)
	}

	if countEvents(events, SliderHead) != 1 {
		t.Fatalf("expected exactly one slider_head, got %d", countEvents(events, SliderHead))
	}
	if countEvents(events, SliderRepeat) != 0 {
		t.Fatalf("a single-slide slider has no repeats, got %d", countEvents(events, SliderRepeat))
	}
	if countEvents(events, SliderLegacyLastTick) != 1 {
		t.Fatalf("expected exactly one legacy last tick, got %d", countEvents(events, SliderLegacyLastTick))
	}
	if countEvents(events, SliderTail) != 1 {
		t.Fatalf("expected exactly one slider_tail, got %d", countEvents(events, SliderTail))
	}

	if events[0].Type != SliderHead {
		t.Fatalf("first event should be the slider_head, got %v", events[0].Type)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("events must be emitted in time order: %v at index %d precedes %v", events[i], i, events[i-1])
		}
	}
}

func TestExpandSliderRepeatCountMatchesSlideCount(t *testing.T) {
	cursor := NewTimingCursor([]TimingPoint{{Time: 0, BeatLength: 500, Uninherited: true}}, 1.0, 1.0)

	for _, slides := range []int{2, 3, 4} {
		arena := &pathapprox.Arena{}
		events, err := expandSlider(straightSliderRow(0, 300, slides), cursor, 14, arena)
		if err != nil {
			t.Fatal(err)
		}
		got := countEvents(events, SliderRepeat)
		want := slides - 1
		if got != want {
			t.Fatalf("slides=%d: got %d slider_repeat events, want %d", slides, got, want)
		}
		if countEvents(events, SliderTail) != 1 {
			t.Fatalf("slides=%d: expected exactly one slider_tail regardless of slide count", slides)
		}
		if countEvents(events, SliderLegacyLastTick) != 1 {
			t.Fatalf("slides=%d: expected exactly one legacy last tick regardless of slide count", slides)
		}
	}
}

func TestExpandSliderDegenerateZeroLength(t *testing.T) {
	cursor := NewTimingCursor([]TimingPoint{{Time: 0, BeatLength: 500, Uninherited: true}}, 1.0, 1.0)
	arena := &pathapprox.Arena{}

	row := straightSliderRow(0, 0, 1)
	events, err := expandSlider(row, cursor, 14, arena)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("a zero-length slider should degrade to head+legacy+tail, got %d events", len(events))
	}
}
