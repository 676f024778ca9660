package osuhits

import (
	"errors"
	"strings"
	"testing"
)

const fixtureBeatmap = `osu file format v14

[General]
StackLeniency: 0.7

[Metadata]
Title:Test Song

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:5
ApproachRate:5
SliderMultiplier:1.4
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,50,1,0

[HitObjects]
100,100,0,1,0,0:0:0:0:
200,200,1000,2,0,L|300:200,1,100
256,192,3000,8,0,4000
`

func TestDecodeEndToEnd(t *testing.T) {
	b, err := Decode(strings.NewReader(fixtureBeatmap), "fixture.osu")
	if err != nil {
		t.Fatal(err)
	}

	if b.FormatVersion != 14 {
		t.Fatalf("got format version %d, want 14", b.FormatVersion)
	}
	if b.Metadata["Title"] != "Test Song" {
		t.Fatalf("got title %q, want %q", b.Metadata["Title"], "Test Song")
	}
	if b.StackLeniency() != 0.7 {
		t.Fatalf("got stack leniency %v, want 0.7", b.StackLeniency())
	}
	if b.Difficulty.SliderMultiplier != 1.4 {
		t.Fatalf("got slider multiplier %v, want 1.4", b.Difficulty.SliderMultiplier)
	}
	if len(b.TimingPoints) != 1 {
		t.Fatalf("got %d timing points, want 1", len(b.TimingPoints))
	}

	if len(b.HitObjects) < 6 {
		t.Fatalf("expected a circle, an expanded slider and two spinner events, got %d events: %+v", len(b.HitObjects), b.HitObjects)
	}

	if b.HitObjects[0].Type != Circle || b.HitObjects[0].Time != 0 {
		t.Fatalf("first event should be the t=0 circle, got %+v", b.HitObjects[0])
	}

	for i := 1; i < len(b.HitObjects); i++ {
		if b.HitObjects[i].Time < b.HitObjects[i-1].Time {
			t.Fatalf("events must be sorted by time: %+v before %+v", b.HitObjects[i-1], b.HitObjects[i])
		}
	}

	last := b.HitObjects[len(b.HitObjects)-1]
	if last.Type != SpinnerEnd || last.Time != 4000 {
		t.Fatalf("last event should be the spinner end at t=4000, got %+v", last)
	}
	if last.Position.X != 256 || last.Position.Y != 192 {
		t.Fatalf("spinner events must sit at the canonical centre, got %v", last.Position)
	}

	sawSliderHead := false
	for _, h := range b.HitObjects {
		if h.Type == SliderHead {
			sawSliderHead = true
			if h.Time != 1000 {
				t.Fatalf("slider_head should fire at t=1000, got %v", h.Time)
			}
		}
	}
	if !sawSliderHead {
		t.Fatal("expected a slider_head event among the expanded events")
	}
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	_, err := Decode(strings.NewReader("not a beatmap\n"), "bad.osu")
	if err == nil {
		t.Fatal("expected an error for a missing format-version header")
	}
}

func TestDecodeRejectsAspireRegression(t *testing.T) {
	src := `osu file format v14

[Difficulty]
SliderMultiplier:1.4
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,50,1,0

[HitObjects]
100,100,10000,1,0,0:0:0:0:
200,200,8000,1,0,0:0:0:0:
`
	_, err := Decode(strings.NewReader(src), "aspire.osu")
	if err == nil {
		t.Fatal("expected a parse error for a >1000ms backward regression between hit objects")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *ParseError, got %T: %v", err, err)
	}
	if pe.Line != 12 {
		t.Fatalf("error should reference the second row (line 12), got line %d", pe.Line)
	}
}

func TestDecodeTruncatesFractionalCoordinates(t *testing.T) {
	src := `osu file format v14

[Difficulty]
SliderMultiplier:1.4
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,50,1,0

[HitObjects]
100.7,200.3,0,1,0,0:0:0:0:
`
	b, err := Decode(strings.NewReader(src), "frac.osu")
	if err != nil {
		t.Fatal(err)
	}
	if b.HitObjects[0].Position.X != 100 || b.HitObjects[0].Position.Y != 200 {
		t.Fatalf("coordinates should be truncated, not rounded: got %v", b.HitObjects[0].Position)
	}
}

func TestDecodeClampsSpinnerEndTimeToStart(t *testing.T) {
	src := `osu file format v14

[Difficulty]
SliderMultiplier:1.4
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,50,1,0

[HitObjects]
256,192,5000,8,0,1000
`
	b, err := Decode(strings.NewReader(src), "spin.osu")
	if err != nil {
		t.Fatal(err)
	}
	var start, end *HitObject
	for i := range b.HitObjects {
		switch b.HitObjects[i].Type {
		case SpinnerStart:
			start = &b.HitObjects[i]
		case SpinnerEnd:
			end = &b.HitObjects[i]
		}
	}
	if start == nil || end == nil {
		t.Fatalf("expected both spinner events, got %+v", b.HitObjects)
	}
	if end.Time < start.Time {
		t.Fatalf("spinner end (%v) must never precede its own start (%v)", end.Time, start.Time)
	}
	if end.Time != start.Time {
		t.Fatalf("a malformed end time before the start should clamp to the start, got %v want %v", end.Time, start.Time)
	}
}

func TestDecodeIgnoresUnknownSections(t *testing.T) {
	src := `osu file format v14

[Events]
0,0,"bg.jpg",0,0

[General]
StackLeniency: 0.5
`
	b, err := Decode(strings.NewReader(src), "t.osu")
	if err != nil {
		t.Fatal(err)
	}
	if b.StackLeniency() != 0.5 {
		t.Fatalf("parsing should continue past an unrecognized section, got leniency %v", b.StackLeniency())
	}
}
