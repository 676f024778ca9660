package osuhits

import "osuhits/linescan"

// ParseError is the one error kind the package raises, aliased from
// linescan since that is where the caret diagnostic is actually built.
type ParseError = linescan.ParseError
