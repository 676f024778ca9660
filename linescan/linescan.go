// Package linescan reads whitespace-trimmed logical lines out of a byte
// stream and lets a caller slice those lines column by column, the way a
// beatmap's comma-separated rows need to be consumed. It is the leaf of the
// decoder: it knows nothing about sections, timing points, or hit objects,
// only about lines, columns, and numbers.
package linescan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError is the one error kind this package (and anything built on top
// of it) raises. One built by a Scanner carries enough to print a
// caret-pointed diagnostic: filename, 1-based line number, the offending
// line's text, and a byte offset into that text. Errors raised away from
// the scanner (slider path parsing, the timing cursor) may carry only Msg.
type ParseError struct {
	Filename string
	Line     int
	Col      int
	LineText string
	Msg      string
}

func (e *ParseError) Error() string {
	name := e.Filename
	if name == "" {
		name = "<unknown>"
	}
	col := e.Col
	if col < 0 {
		col = 0
	}
	if col > len(e.LineText) {
		col = len(e.LineText)
	}
	return fmt.Sprintf("parse error in %s line %d: %s\n\n    %s\n    %s^\n",
		name, e.Line, e.Msg, e.LineText, strings.Repeat(" ", col))
}

// Scanner reads logical lines from an underlying stream, tolerating a
// leading UTF-8 BOM and both LF and CRLF line endings.
type Scanner struct {
	filename string
	sc       *bufio.Scanner
	lineNo   int
	lastLine string
	first    bool
}

// NewScanner wraps r. filename is used only for diagnostics.
func NewScanner(r io.Reader, filename string) *Scanner {
	sc := bufio.NewScanner(r)
	const maxLine = 4 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Scanner{filename: filename, sc: sc, first: true}
}

// ReadLine returns the next non-empty, trimmed logical line, or "" on EOF.
// Leading/trailing ASCII spaces and tabs are stripped, as is a trailing
// '\r' left over from a CRLF line ending, and a leading UTF-8 BOM on the
// very first line of the stream.
func (s *Scanner) ReadLine() string {
	for s.sc.Scan() {
		line := s.sc.Text()
		s.lineNo++
		if s.first {
			s.first = false
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimRight(line, "\r")
		line = strings.Trim(line, " \t")
		if line == "" {
			continue
		}
		s.lastLine = line
		return line
	}
	return ""
}

// Err returns any non-EOF error encountered while reading.
func (s *Scanner) Err() error {
	return s.sc.Err()
}

// RereadLastLine returns the most recently returned line again, letting a
// section dispatcher hand its header line to the section parser without
// consuming a further line from the stream.
func (s *Scanner) RereadLastLine() string {
	return s.lastLine
}

// LineNo returns the 1-based line number of the line most recently
// returned by ReadLine.
func (s *Scanner) LineNo() int {
	return s.lineNo
}

// NewError builds a ParseError anchored to the current line, pointing the
// caret at the byte offset where rest begins within line.
func (s *Scanner) NewError(line, rest, msg string) *ParseError {
	return &ParseError{
		Filename: s.filename,
		Line:     s.lineNo,
		Col:      len(line) - len(rest),
		LineText: line,
		Msg:      msg,
	}
}

// Errorf is a convenience wrapper around NewError with a format string.
func (s *Scanner) Errorf(line, rest, format string, args ...any) *ParseError {
	return s.NewError(line, rest, fmt.Sprintf(format, args...))
}

// TakeNumberColumn parses a leading numeric value off line and then
// advances line past the delimiter ending that column, combining
// TakeNumber and TakeColumn the way a comma-separated numeric field that
// isn't the line's final column usually needs to be read.
func TakeNumberColumn[T Number](s *Scanner, line *string, delim byte) (T, error) {
	v, err := TakeNumber[T](s, line)
	if err != nil {
		var zero T
		return zero, err
	}
	if _, err := s.TakeColumn(line, delim); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// TryTakeNumberColumn behaves like TakeNumberColumn, but also succeeds on
// a final column with no trailing delimiter, mirroring TryTakeColumn. It
// reports false, with no error, when line is already empty.
func TryTakeNumberColumn[T Number](s *Scanner, line *string, delim byte) (T, bool, error) {
	if *line == "" {
		var zero T
		return zero, false, nil
	}
	v, err := TakeNumber[T](s, line)
	if err != nil {
		var zero T
		return zero, false, err
	}
	s.TryTakeColumn(line, delim)
	return v, true, nil
}

func trimLeadingSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

// TakeColumn slices line up to (not including) the first occurrence of
// delim, trims ASCII space/tab off the result, and advances line past the
// delimiter. It fails — returning an error — if delim does not appear,
// since that would make it impossible to tell an empty final column from a
// missing one.
func (s *Scanner) TakeColumn(line *string, delim byte) (string, error) {
	full := *line
	idx := strings.IndexByte(full, delim)
	if idx < 0 {
		return "", s.Errorf(full, full, "expected delimiter %q", delim)
	}
	col := strings.Trim(full[:idx], " \t")
	*line = trimLeadingSpace(full[idx+1:])
	return col, nil
}

// TryTakeColumn behaves like TakeColumn, but also succeeds when no
// delimiter remains and the tail is non-empty — treating the rest of the
// line as the final column. It reports false only when nothing is left to
// take.
func (s *Scanner) TryTakeColumn(line *string, delim byte) (string, bool) {
	full := *line
	if full == "" {
		return "", false
	}
	idx := strings.IndexByte(full, delim)
	if idx < 0 {
		*line = ""
		return strings.Trim(full, " \t"), true
	}
	col := strings.Trim(full[:idx], " \t")
	*line = trimLeadingSpace(full[idx+1:])
	return col, true
}

// TakeNumber parses a leading numeric value off line — locale-independent,
// round-to-nearest decimal-to-binary conversion, scientific notation
// accepted for floating types — and advances line past it.
func TakeNumber[T Number](s *Scanner, line *string) (T, error) {
	full := *line
	n := leadingNumberLen(full)
	if n == 0 {
		var zero T
		return zero, s.Errorf(full, full, "expected a number")
	}
	tok := full[:n]
	v, err := parseNumber[T](tok)
	if err != nil {
		var zero T
		return zero, s.Errorf(full, full, "failed to parse number %q: %v", tok, err)
	}
	*line = trimLeadingSpace(full[n:])
	return v, nil
}

// Number is the set of numeric types TakeNumber supports.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

func parseNumber[T Number](tok string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case float32:
		v, err := strconv.ParseFloat(tok, 32)
		return T(v), err
	case float64:
		v, err := strconv.ParseFloat(tok, 64)
		return T(v), err
	default:
		v, err := strconv.ParseInt(tok, 10, 64)
		return T(v), err
	}
}

// leadingNumberLen returns the length of the longest prefix of s that looks
// like a number (optional sign, digits, optional fractional part, optional
// exponent), mirroring the behaviour of std::from_chars: it matches as much
// as forms a valid numeral and leaves the rest untouched.
func leadingNumberLen(s string) int {
	i := 0
	n := len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < n && isDigit(s[i]) {
		i++
	}
	intDigits := i - start
	fracDigits := 0
	if i < n && s[i] == '.' {
		j := i + 1
		k := j
		for k < n && isDigit(s[k]) {
			k++
		}
		fracDigits = k - j
		if fracDigits > 0 {
			i = k
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	// optional exponent, only meaningful if we already have a mantissa
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < n && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
