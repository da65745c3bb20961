package resolver

import (
	"context"
	"strings"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
)

// MemberResolver creates members and inserts them into their compound,
// namespace or file. A declaration and a definition of the same member in
// the same scope resolve to one member.
type MemberResolver struct{}

func NewMemberResolver() *MemberResolver { return &MemberResolver{} }

func (r *MemberResolver) Name() string { return "members" }

func (r *MemberResolver) Resolve(ctx context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph

	for i := range b.Entries {
		e := &b.Entries[i]
		if e.Class() != ir.ClassMember {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Attempted++
		scope, name := qualifiedName(e)
		kind := graph.ParseMemberKind(e.Kind)

		owner := r.owner(b, e, scope)
		if existing := findSame(g, owner, kind, name, e); existing != nil {
			applyDefinition(&existing.Definition, e)
			if existing.Args == "" {
				existing.Args = e.Args
			}
			if existing.Initializer == "" {
				existing.Initializer = e.Initializer
			}
			b.members[i] = existing.ID
			st.Resolved++
			continue
		}

		m := g.NewMember(kind, name, location(e))
		if m == nil {
			st.Skipped++
			continue
		}
		applyDefinition(&m.Definition, e)
		m.Prot = graph.ParseProtection(e.Protection)
		m.Virt = graph.ParseSpecifier(e.Virtual)
		m.Static = e.Static
		m.Related = e.Related
		m.Type = e.Type
		m.Args = e.Args
		m.Arguments = convertArgs(e.Arguments)
		m.TemplateArgs = convertArgs(e.TemplateArgs)
		m.Initializer = e.Initializer
		m.MemberGroup = e.MemberGroup
		b.members[i] = m.ID
		r.insert(b, e, m, owner)
		st.Resolved++
	}

	st.Skipped += r.linkEnumValues(b)
	st.Skipped += r.linkAnonTypes(b)
	return st, nil
}

// owner picks the scope a member is inserted into. Unknown scopes are
// reported and the member falls back to its file.
func (r *MemberResolver) owner(b *Build, e *ir.Entry, scope string) graph.Ref {
	g := b.Graph
	if scope != "" {
		if c, ok := g.FindClass(scope); ok {
			return graph.ClassRef(c.ID)
		}
		if ns, ok := g.FindNamespace(scope); ok {
			return graph.NamespaceRef(ns.ID)
		}
		b.unresolved(e, "scope", scope, ReasonNoCandidate)
	}
	if e.Location.File != "" && !e.IsExternal() {
		return graph.FileRef(g.AddFile(e.Location.File).ID)
	}
	return graph.Ref{}
}

func scopeMembers(g *graph.Graph, owner graph.Ref) *graph.MemberNameIndex {
	switch owner.Kind {
	case graph.DefClass:
		return g.Class(graph.ClassID(owner.Index)).AllMembers()
	case graph.DefNamespace:
		return g.Namespace(graph.NamespaceID(owner.Index)).AllMembers()
	case graph.DefFile:
		return g.File(graph.FileID(owner.Index)).AllMembers()
	}
	return nil
}

// findSame returns a member of owner that e re-declares.
func findSame(g *graph.Graph, owner graph.Ref, kind graph.MemberKind, name string, e *ir.Entry) *graph.Member {
	idx := scopeMembers(g, owner)
	if idx == nil {
		return nil
	}
	mni := idx.Lookup(graph.LocalNameOf(name))
	if mni == nil {
		return nil
	}
	args := convertArgs(e.Arguments)
	for _, mi := range mni.Members {
		m := g.Member(mi.Member)
		if m == nil || m.Kind != kind || m.Name != name {
			continue
		}
		if len(m.TemplateArgs) != len(e.TemplateArgs) {
			continue
		}
		if m.IsFunctionLike() && !graph.MatchArguments(m.Arguments, args) {
			continue
		}
		return m
	}
	return nil
}

func (r *MemberResolver) insert(b *Build, e *ir.Entry, m *graph.Member, owner graph.Ref) {
	g := b.Graph
	if e.Location.File != "" && !e.IsExternal() {
		m.File = g.AddFile(e.Location.File).ID
	}
	m.Outer = owner
	switch owner.Kind {
	case graph.DefClass:
		c := g.Class(graph.ClassID(owner.Index))
		m.Class = c.ID
		if m.Kind == graph.MemberFunction {
			master, _ := graph.SplitTemplateName(c.LocalName)
			switch m.LocalName {
			case master:
				m.Ctor = true
			case "~" + master:
				m.Dtor = true
			}
		}
		c.InsertMember(m.ID, m.Prot, true)
	case graph.DefNamespace:
		ns := g.Namespace(graph.NamespaceID(owner.Index))
		m.Namespace = ns.ID
		ns.InsertMember(m.ID)
	case graph.DefFile:
		g.File(graph.FileID(owner.Index)).InsertMember(m.ID)
	}
}

// linkEnumValues attaches enum values to the enumeration named by their
// entry. It returns the number of values left unlinked.
func (r *MemberResolver) linkEnumValues(b *Build) int {
	g := b.Graph
	missed := 0
	for i := range b.Entries {
		e := &b.Entries[i]
		id, ok := b.members[i]
		if !ok || e.Enum == "" {
			continue
		}
		v := g.Member(id)
		if v.Kind != graph.MemberEnumValue || v.EnumScope != graph.NoMember {
			continue
		}
		enum := findEnum(b, v, e.Enum)
		if enum == nil {
			b.unresolved(e, "enum", e.Enum, ReasonNoCandidate)
			missed++
			continue
		}
		v.EnumScope = enum.ID
		enum.EnumValues = append(enum.EnumValues, v.ID)
	}
	return missed
}

func findEnum(b *Build, v *graph.Member, name string) *graph.Member {
	g := b.Graph
	local := graph.LocalNameOf(name)
	var fallback *graph.Member
	for _, id := range g.MembersNamed(local) {
		m := g.Member(id)
		if m.Kind != graph.MemberEnumeration {
			continue
		}
		if m.Name == name || m.Outer == v.Outer {
			return m
		}
		if fallback == nil && strings.HasSuffix(m.Name, "::"+strings.TrimPrefix(name, "::")) {
			fallback = m
		}
	}
	return fallback
}

func (r *MemberResolver) linkAnonTypes(b *Build) int {
	missed := 0
	for i := range b.Entries {
		e := &b.Entries[i]
		id, ok := b.members[i]
		if !ok || e.AnonType == "" {
			continue
		}
		m := b.Graph.Member(id)
		scope, _ := qualifiedName(e)
		c := b.lookupClass(scope, e.AnonType)
		if c == nil {
			b.unresolved(e, "anon_type", e.AnonType, ReasonNoCandidate)
			missed++
			continue
		}
		m.AnonType = c.ID
	}
	return missed
}
