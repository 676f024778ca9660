package osuhits

import (
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"osuhits/linescan"
	"osuhits/pathapprox"
)

const (
	hitCircleFlag = 1 << 0
	sliderFlag    = 1 << 1
	newComboFlag  = 1 << 2
	spinnerFlag   = 1 << 3
	holdFlag      = 1 << 7
)

// DecodeFile opens path and decodes it as a .osu beatmap.
func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads a complete .osu file from r and returns its fully expanded,
// time-ordered, stacked hit-event sequence. filename is used only to
// annotate parse errors.
func Decode(r io.Reader, filename string) (*Beatmap, error) {
	sc := linescan.NewScanner(r, filename)

	version, err := parseHeader(sc)
	if err != nil {
		return nil, err
	}
	b := &Beatmap{
		FormatVersion: version,
		General:       map[string]string{},
		Editor:        map[string]string{},
		Metadata:      map[string]string{},
	}
	// Every format predating the AR field reused OverallDifficulty for
	// approach rate; set it here so a file with no [Difficulty] AR line
	// still gets a sane fallback.
	b.Difficulty.ApproachRate = -1

	var rows []hitObjectRow

	line := sc.ReadLine()
	for line != "" {
		switch {
		case strings.HasPrefix(line, "[General]"):
			b.General, line, err = parseDictSection(sc)
		case strings.HasPrefix(line, "[Editor]"):
			b.Editor, line, err = parseDictSection(sc)
		case strings.HasPrefix(line, "[Metadata]"):
			b.Metadata, line, err = parseDictSection(sc)
		case strings.HasPrefix(line, "[Difficulty]"):
			line, err = parseDifficulty(sc, &b.Difficulty)
		case strings.HasPrefix(line, "[TimingPoints]"):
			b.TimingPoints, line, err = parseTimingPoints(sc)
		case strings.HasPrefix(line, "[HitObjects]"):
			rows, line, err = parseHitObjectRows(sc, version)
		case strings.HasPrefix(line, "["):
			line, err = ignoreSection(sc)
		default:
			return nil, sc.Errorf(line, line, "expected a section header")
		}
		if err != nil {
			return nil, err
		}
	}

	if b.Difficulty.ApproachRate < 0 {
		b.Difficulty.ApproachRate = b.Difficulty.OverallDifficulty
	}
	sort.SliceStable(b.TimingPoints, func(i, j int) bool {
		return b.TimingPoints[i].Time < b.TimingPoints[j].Time
	})

	events, err := expandRows(rows, b.TimingPoints, b.Difficulty, version, filename)
	if err != nil {
		return nil, err
	}
	b.HitObjects = events
	ApplyStackingForBeatmap(b)

	return b, nil
}

func parseHeader(sc *linescan.Scanner) (int, error) {
	line := sc.ReadLine()
	const prefix = "osu file format v"
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, sc.Errorf(line, line, "expected file prefix %q", prefix)
	}
	v, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, sc.Errorf(line, rest, "malformed format version")
	}
	return v, nil
}

// sectionComplete reports whether line ends the section currently being
// read: either it opens another section, or the stream is exhausted.
// A blank line also ends a section in the original format, but Scanner's
// ReadLine never surfaces blank lines, so that boundary collapses into
// the EOF case here.
func sectionComplete(line string) bool {
	return line == "" || strings.HasPrefix(line, "[")
}

func parseDictSection(sc *linescan.Scanner) (map[string]string, string, error) {
	result := map[string]string{}
	line := sc.ReadLine()
	for !sectionComplete(line) {
		key, err := sc.TakeColumn(&line, ':')
		if err != nil {
			return nil, "", err
		}
		result[key] = strings.TrimSpace(line)
		line = sc.ReadLine()
	}
	return result, line, nil
}

func parseDifficulty(sc *linescan.Scanner, d *DifficultyAttributes) (string, error) {
	line := sc.ReadLine()
	for !sectionComplete(line) {
		key, err := sc.TakeColumn(&line, ':')
		if err != nil {
			return "", err
		}
		// A difficulty line never carries anything past its value, so
		// there's no trailing delimiter to consume.
		val, err := linescan.TakeNumber[float64](sc, &line)
		if err != nil {
			return "", err
		}
		switch key {
		case "HPDrainRate":
			d.HPDrainRate = val
		case "CircleSize":
			d.CircleSize = val
		case "OverallDifficulty":
			d.OverallDifficulty = val
		case "ApproachRate":
			d.ApproachRate = val
		case "SliderMultiplier":
			d.SliderMultiplier = val
		case "SliderTickRate":
			d.SliderTickRate = val
		}
		line = sc.ReadLine()
	}
	if d.SliderMultiplier == 0 {
		d.SliderMultiplier = 1.0
	}
	if d.SliderTickRate == 0 {
		d.SliderTickRate = 1.0
	}
	d.SliderMultiplier = clampFloat(d.SliderMultiplier, 0.4, 3.6)
	d.SliderTickRate = clampFloat(d.SliderTickRate, 0.5, 8.0)
	return line, nil
}

func clampFloat(v, min, max float64) float64 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	default:
		return v
	}
}

func parseTimingPoints(sc *linescan.Scanner) ([]TimingPoint, string, error) {
	var points []TimingPoint
	line := sc.ReadLine()
	for !sectionComplete(line) {
		var t TimingPoint
		var err error
		if t.Time, err = linescan.TakeNumberColumn[float64](sc, &line, ','); err != nil {
			return nil, "", err
		}
		var beatLength float64
		if beatLength, err = linescan.TakeNumberColumn[float64](sc, &line, ','); err != nil {
			return nil, "", err
		}
		if t.Meter, err = linescan.TakeNumberColumn[int](sc, &line, ','); err != nil {
			return nil, "", err
		}
		if t.SampleSet, err = linescan.TakeNumberColumn[int](sc, &line, ','); err != nil {
			return nil, "", err
		}
		if t.SampleIndex, err = linescan.TakeNumberColumn[int](sc, &line, ','); err != nil {
			return nil, "", err
		}
		if t.Volume, err = linescan.TakeNumberColumn[int](sc, &line, ','); err != nil {
			return nil, "", err
		}
		var uninherited int
		if uninherited, err = linescan.TakeNumberColumn[int](sc, &line, ','); err != nil {
			return nil, "", err
		}
		t.Uninherited = uninherited != 0
		if n, ok, err := linescan.TryTakeNumberColumn[int](sc, &line, ','); err == nil && ok {
			t.Effects = n
		}

		if t.Uninherited {
			t.BeatLength = clampBeatLength(beatLength)
		} else {
			sv := 1.0
			if beatLength != 0 {
				sv = 100.0 / beatLength
			}
			t.SliderVelocity = clampSliderVelocity(sv)
		}

		points = append(points, t)
		line = sc.ReadLine()
	}
	return points, line, nil
}

func ignoreSection(sc *linescan.Scanner) (string, error) {
	line := sc.ReadLine()
	for !sectionComplete(line) {
		line = sc.ReadLine()
	}
	return line, nil
}

func parseHitObjectRows(sc *linescan.Scanner, formatVersion int) ([]hitObjectRow, string, error) {
	var rows []hitObjectRow
	line := sc.ReadLine()
	for !sectionComplete(line) {
		row, err := parseHitObjectRow(sc, line, formatVersion)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, row)
		line = sc.ReadLine()
	}
	return rows, line, nil
}

func parseHitObjectRow(sc *linescan.Scanner, line string, formatVersion int) (hitObjectRow, error) {
	original := line
	var row hitObjectRow
	row.LineNo = sc.LineNo()
	row.LineText = original

	x, err := linescan.TakeNumberColumn[float64](sc, &line, ',')
	if err != nil {
		return row, err
	}
	y, err := linescan.TakeNumberColumn[float64](sc, &line, ',')
	if err != nil {
		return row, err
	}
	// x and y are truncated, not rounded, to integers.
	row.Position = pathapprox.Vec2{X: float32(math.Trunc(x)), Y: float32(math.Trunc(y))}

	if row.Time, err = linescan.TakeNumberColumn[float64](sc, &line, ','); err != nil {
		return row, err
	}
	flags, err := linescan.TakeNumberColumn[int](sc, &line, ',')
	if err != nil {
		return row, err
	}
	row.NewCombo = flags&newComboFlag != 0
	if _, ok := sc.TryTakeColumn(&line, ','); !ok {
		return row, sc.Errorf(original, line, "hit object is missing its hit sound column")
	}

	switch {
	case flags&spinnerFlag != 0:
		row.Kind = rowSpinner
		if end, ok, err := linescan.TryTakeNumberColumn[float64](sc, &line, ','); err == nil && ok {
			row.EndTime = end
		}
		// The end time is clamped to be no earlier than the start time,
		// so a malformed row can never emit its end event before its
		// own start event.
		row.EndTime = math.Max(row.EndTime, row.Time)
		// Spinners are stored at canonical centre regardless of the
		// file's own x/y.
		row.Position = pathapprox.Vec2{X: 256, Y: 192}

	case flags&sliderFlag != 0:
		row.Kind = rowSlider
		row.Slides = 1
		pathSpec, ok := sc.TryTakeColumn(&line, ',')
		if !ok {
			return row, sc.Errorf(original, line, "slider is missing its path column")
		}
		cps, err := parseSliderPathString(formatVersion, row.Position, pathSpec)
		if err != nil {
			return row, err
		}
		row.ControlPoints = cps

		if n, ok, err := linescan.TryTakeNumberColumn[int](sc, &line, ','); err == nil && ok && n > 0 {
			row.Slides = n
		}
		if f, ok, err := linescan.TryTakeNumberColumn[float64](sc, &line, ','); err == nil && ok {
			row.Length = f
		}
		// edgeSounds, edgeAdditions: round-tripped by nothing downstream
		// of this package, so they're read off the line (TryTakeColumn)
		// only to keep the scanner's column cursor consistent for future
		// maintenance; their values are discarded. The trailing hitSample
		// column is left unread.
		sc.TryTakeColumn(&line, ',')
		sc.TryTakeColumn(&line, ',')

	case flags&holdFlag != 0:
		// Mania hold notes carry no meaning for any ruleset this package
		// targets.
		return row, sc.Errorf(original, line, "mania hold notes are not supported")

	default:
		row.Kind = rowCircle
	}

	return row, nil
}

// maxHitObjectRegression is the largest backward jump allowed between the
// timestamps of consecutive hit-object rows in file order. Anything beyond
// it is not a legitimate map but an "aspire" file abusing negative gaps to
// break tools that assume forward-only timelines.
const maxHitObjectRegression = 1000.0

// expandRows walks every parsed row in file order, advancing a shared
// TimingCursor and slider-path arena, and returns the flat event sequence
// a Beatmap presents before stacking is applied.
func expandRows(rows []hitObjectRow, timingPoints []TimingPoint, diff DifficultyAttributes, formatVersion int, filename string) ([]HitObject, error) {
	cursor := NewTimingCursor(timingPoints, diff.SliderMultiplier, diff.SliderTickRate)
	arena := &pathapprox.Arena{}

	var events []HitObject
	for i, row := range rows {
		if i > 0 && row.Time < rows[i-1].Time-maxHitObjectRegression {
			return nil, &ParseError{
				Filename: filename,
				Line:     row.LineNo,
				Col:      0,
				LineText: row.LineText,
				Msg:      "hit object regresses more than 1000ms from the previous one",
			}
		}
		switch row.Kind {
		case rowCircle:
			events = append(events, HitObject{Type: Circle, Time: row.Time, Position: row.Position, NewCombo: row.NewCombo})

		case rowSpinner:
			events = append(events, HitObject{Type: SpinnerStart, Time: row.Time, Position: row.Position, NewCombo: row.NewCombo})
			events = append(events, HitObject{Type: SpinnerEnd, Time: row.EndTime, Position: row.Position})

		case rowSlider:
			arena.Reset()
			sliderEvents, err := expandSlider(row, cursor, formatVersion, arena)
			if err != nil {
				return nil, err
			}
			events = append(events, sliderEvents...)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events, nil
}
