package resolver

import (
	"strings"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
)

// Unresolved is a by-name reference no stage could bind.
type Unresolved struct {
	Entry  string
	Kind   string // base, scope, group, enum, anon_type, category
	Target string
	Reason string
	Loc    graph.Location
}

const (
	ReasonNoCandidate = "no_candidate"
	ReasonWrongKind   = "wrong_kind"
)

// Build carries a graph under construction and the entries feeding it
// through the resolver stages. Entries are processed in slice order, which
// decides first-processed tie-breaks.
type Build struct {
	Graph      *graph.Graph
	Entries    []ir.Entry
	Unresolved []Unresolved
	// Substituter rewrites template parameters in copied instance members.
	Substituter graph.Substituter

	classes map[int]graph.ClassID
	members map[int]graph.MemberID
	scopes  map[int]graph.Ref
}

// NewBuild prepares entries for resolution. Entries are put in processing
// order with ir.Sequence.
func NewBuild(g *graph.Graph, entries []ir.Entry) *Build {
	return &Build{
		Graph:       g,
		Entries:     ir.Sequence(entries),
		Substituter: graph.WordSubstituter{},
		classes:     make(map[int]graph.ClassID),
		members:     make(map[int]graph.MemberID),
		scopes:      make(map[int]graph.Ref),
	}
}

// ClassOf returns the compound created for entry i.
func (b *Build) ClassOf(i int) (graph.ClassID, bool) {
	id, ok := b.classes[i]
	return id, ok
}

// MemberOf returns the member entry i resolved to. Several entries can
// resolve to the same member when a declaration and its definition are both
// seen.
func (b *Build) MemberOf(i int) (graph.MemberID, bool) {
	id, ok := b.members[i]
	return id, ok
}

func (b *Build) unresolved(e *ir.Entry, kind, target, reason string) {
	loc := location(e)
	b.Unresolved = append(b.Unresolved, Unresolved{
		Entry: e.Name, Kind: kind, Target: target, Reason: reason, Loc: loc,
	})
	b.Graph.Diagnostics().Report(graph.DiagUnresolved, loc,
		"unresolved %s %q referenced by %s (%s)", kind, target, e.Name, reason)
}

func (b *Build) each(class ir.Class, fn func(i int, e *ir.Entry)) {
	for i := range b.Entries {
		if b.Entries[i].Class() == class {
			fn(i, &b.Entries[i])
		}
	}
}

// lookupClass finds name as seen from scope, trying scope and each of its
// enclosing scopes before the global one.
func (b *Build) lookupClass(scope, name string) *graph.Compound {
	name = strings.TrimPrefix(strings.TrimSpace(name), "::")
	for s := scope; ; s = graph.ScopeOf(s) {
		q := name
		if s != "" {
			q = s + "::" + name
		}
		if c, ok := b.Graph.FindClass(q); ok {
			return c
		}
		if s == "" {
			return nil
		}
	}
}

func location(e *ir.Entry) graph.Location {
	return graph.Location{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
}

func convertArgs(args []ir.Arg) []graph.Arg {
	if len(args) == 0 {
		return nil
	}
	out := make([]graph.Arg, len(args))
	for i, a := range args {
		out[i] = graph.Arg{Type: a.Type, Name: a.Name, Default: a.Default}
	}
	return out
}

// applyDefinition copies the shared attributes of e onto d. Documentation
// only fills what is still empty so later declarations do not overwrite
// earlier ones.
func applyDefinition(d *graph.Definition, e *ir.Entry) {
	if d.Brief == "" {
		d.Brief = e.Brief
	}
	if d.Doc == "" {
		d.Doc = e.Doc
	}
	if e.TagFile != "" {
		d.TagFile = e.TagFile
	}
	d.Hidden = d.Hidden || e.Hidden
}

// qualifiedName joins a member's scope and name unless name already
// carries the scope.
func qualifiedName(e *ir.Entry) (scope, name string) {
	scope = strings.TrimPrefix(e.Scope, "::")
	name = strings.TrimPrefix(e.Name, "::")
	if scope == "" {
		return graph.ScopeOf(name), name
	}
	if strings.HasPrefix(name, scope+"::") {
		return scope, name
	}
	return scope, scope + "::" + name
}
