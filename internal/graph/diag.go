package graph

import (
	"fmt"
	"log/slog"

	"symgraph/internal/logfields"
)

// DiagKind classifies a diagnostic raised while building the graph.
type DiagKind string

const (
	DiagAmbiguity     DiagKind = "ambiguity"
	DiagRejection     DiagKind = "rejection"
	DiagInternalError DiagKind = "internal_error"
	DiagUnresolved    DiagKind = "unresolved"
)

type Diagnostic struct {
	Kind    DiagKind
	Message string
	Loc     Location
}

func (d Diagnostic) String() string {
	if d.Loc.File == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.Loc.File, d.Loc.Line, d.Kind, d.Message)
}

// Reporter is the warning channel of the graph. Every diagnostic is kept for
// later inspection and logged as it happens.
type Reporter struct {
	logger *slog.Logger
	diags  []Diagnostic
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

func (r *Reporter) Report(kind DiagKind, loc Location, format string, args ...any) {
	d := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Loc: loc}
	r.diags = append(r.diags, d)

	attrs := []any{logfields.Kind(string(kind))}
	if loc.File != "" {
		attrs = append(attrs, logfields.File(loc.File), logfields.Line(loc.Line))
	}
	if kind == DiagInternalError {
		r.logger.Error(d.Message, attrs...)
		return
	}
	r.logger.Warn(d.Message, attrs...)
}

func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

func (r *Reporter) Len() int { return len(r.diags) }

// Counts tallies diagnostics per kind.
func (r *Reporter) Counts() map[DiagKind]int {
	counts := make(map[DiagKind]int)
	if r == nil {
		return counts
	}
	for _, d := range r.diags {
		counts[d.Kind]++
	}
	return counts
}

// Of returns the diagnostics of one kind, in report order.
func (r *Reporter) Of(kind DiagKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.diags {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
