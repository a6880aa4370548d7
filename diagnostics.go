package weave

import (
	"fmt"
	"log/slog"
	"os"
)

// WarningKind classifies advisory diagnostics. Warnings never halt a run;
// they degrade the offending expression or construct to empty output.
type WarningKind string

const (
	// WarnUnresolvedExpression reports a ${...} expression outside the
	// recognized grammar.
	WarnUnresolvedExpression WarningKind = "unresolved-expression"
	// WarnMissingAttribute reports a self.<attr> reference to an attribute
	// absent from the invocation context.
	WarnMissingAttribute WarningKind = "missing-attribute"
	// WarnEmptyIf reports an <if> with neither <then> nor <else> branch.
	WarnEmptyIf WarningKind = "empty-if"
)

// Warning is one advisory diagnostic, recorded with enough context to
// identify the offending file and construct.
type Warning struct {
	Kind    WarningKind
	Subject string // the expression, attribute or tag at fault
	Detail  string // optional extra context, e.g. attributes that were available
	File    string // site-relative path of the document being generated
}

func (w Warning) String() string {
	s := fmt.Sprintf("%s: %s", w.Kind, w.Subject)
	if w.File != "" {
		s = w.File + ": " + s
	}
	if w.Detail != "" {
		s += " (" + w.Detail + ")"
	}
	return s
}

// Reporter receives advisory diagnostics during expansion.
type Reporter interface {
	Warn(w Warning)
}

// CollectingReporter records warnings in order, for inspection by callers
// and tests.
type CollectingReporter struct {
	Warnings []Warning
}

func (r *CollectingReporter) Warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// LogReporter prints warnings through slog. Warnings go to stdout so they
// interleave with normal progress output rather than the error stream.
type LogReporter struct {
	Logger *slog.Logger
}

// NewLogReporter returns a reporter logging to stdout.
func NewLogReporter() *LogReporter {
	return &LogReporter{Logger: slog.New(slog.NewTextHandler(os.Stdout, nil))}
}

func (r *LogReporter) Warn(w Warning) {
	r.Logger.Warn(w.Subject,
		"kind", string(w.Kind),
		"file", w.File,
		"detail", w.Detail,
	)
}
