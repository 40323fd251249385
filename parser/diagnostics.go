package parser

import "fmt"

// Diagnostics is the error/warning sink from spec.md §6. Errorf reports
// a condition the grammar treats as fatal; the sink itself need not
// terminate the process (ParseNext recovers the parser's own panic and
// returns it as an error — see FatalError below). Warnf reports a
// recoverable condition (spec.md §8's warned-but-recovered cases, e.g.
// an under-specified array initializer).
type Diagnostics interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
}

// FatalError is what ParseNext returns when the grammar hits a
// condition spec.md treats as unrecoverable. The parser never continues
// past one: every fatalf panics with this type, and ParseNext is the
// only place that recovers it.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

// CollectingDiagnostics is a Diagnostics sink that records every
// message instead of printing it, for tests that want to assert on
// warnings without a logger.
type CollectingDiagnostics struct {
	Errors   []string
	Warnings []string
}

func NewCollectingDiagnostics() *CollectingDiagnostics {
	return &CollectingDiagnostics{}
}

func (c *CollectingDiagnostics) Errorf(format string, args ...any) {
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}

func (c *CollectingDiagnostics) Warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
