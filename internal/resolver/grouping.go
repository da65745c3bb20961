package resolver

import (
	"context"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
)

// GroupingResolver nests groups and decides the owning group of every
// grouped entity. Entries are visited in processing order, so on equal
// priority the first entry wins.
type GroupingResolver struct{}

func NewGroupingResolver() *GroupingResolver { return &GroupingResolver{} }

func (r *GroupingResolver) Name() string { return "grouping" }

func (r *GroupingResolver) Resolve(ctx context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph

	// Nesting first, so cycle checks see every edge requested so far.
	b.each(ir.ClassGroup, func(i int, e *ir.Entry) {
		ref, ok := b.scopes[i]
		if !ok {
			return
		}
		child := g.Group(graph.GroupID(ref.Index))
		for _, gr := range e.Groups {
			st.Attempted++
			parent, ok := g.FindGroup(gr.Name)
			if !ok {
				b.unresolved(e, "group", gr.Name, ReasonNoCandidate)
				st.Skipped++
				continue
			}
			if parent.AddGroup(child.ID) {
				st.Resolved++
			}
		}
	})

	for i := range b.Entries {
		e := &b.Entries[i]
		if len(e.Groups) == 0 || e.Class() == ir.ClassGroup {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		target, ok := r.target(b, i)
		if !ok {
			continue
		}
		st.Attempted++
		cands := r.candidates(b, e)
		if len(cands) == 0 {
			st.Skipped++
			continue
		}
		if g.AddEntityToGroups(cands, target, e.HasDocs(), location(e)) != graph.NoGroup {
			st.Resolved++
		} else {
			st.Skipped++
		}
	}
	return st, nil
}

func (r *GroupingResolver) target(b *Build, i int) (graph.Ref, bool) {
	if id, ok := b.members[i]; ok {
		return graph.MemberRef(id), true
	}
	if id, ok := b.classes[i]; ok {
		return graph.ClassRef(id), true
	}
	if ref, ok := b.scopes[i]; ok {
		return ref, true
	}
	return graph.Ref{}, false
}

// candidates turns the group tags of e into candidates, in tag order.
func (r *GroupingResolver) candidates(b *Build, e *ir.Entry) []graph.GroupCandidate {
	out := make([]graph.GroupCandidate, 0, len(e.Groups))
	for _, ref := range e.Groups {
		gr, ok := b.Graph.FindGroup(ref.Name)
		if !ok {
			b.unresolved(e, "group", ref.Name, ReasonNoCandidate)
			continue
		}
		out = append(out, graph.GroupCandidate{Group: gr.ID, Pri: graph.Priority(ref.Pri())})
	}
	return out
}

// FinalizeResolver moves members into their member groups, computes every
// list count once and freezes the graph.
type FinalizeResolver struct{}

func NewFinalizeResolver() *FinalizeResolver { return &FinalizeResolver{} }

func (r *FinalizeResolver) Name() string { return "finalize" }

type scoped interface {
	AddMembersToMemberGroups()
	ListTypes() []graph.ListType
	MemberList(graph.ListType) *graph.MemberList
}

func (r *FinalizeResolver) Resolve(_ context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph

	var scopes []scoped
	for _, c := range g.Classes() {
		scopes = append(scopes, c)
	}
	for _, n := range g.Namespaces() {
		scopes = append(scopes, n)
	}
	for _, f := range g.Files() {
		scopes = append(scopes, f)
	}
	for _, gr := range g.Groups() {
		scopes = append(scopes, gr)
	}

	for _, s := range scopes {
		st.Attempted++
		s.AddMembersToMemberGroups()
		for _, t := range s.ListTypes() {
			l := s.MemberList(t)
			l.CountDecMembers()
			l.CountDocMembers()
		}
		st.Resolved++
	}
	g.Freeze()
	return st, nil
}
