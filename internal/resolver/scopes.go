package resolver

import (
	"context"
	"slices"
	"strings"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
)

// ScopeResolver creates namespaces, files, directories, pages and groups.
type ScopeResolver struct{}

func NewScopeResolver() *ScopeResolver { return &ScopeResolver{} }

func (r *ScopeResolver) Name() string { return "scopes" }

func (r *ScopeResolver) Resolve(_ context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph
	for i := range b.Entries {
		e := &b.Entries[i]
		var ref graph.Ref
		switch e.Class() {
		case ir.ClassNamespace:
			n := g.AddNamespace(strings.TrimPrefix(e.Name, "::"), location(e))
			applyDefinition(&n.Definition, e)
			if e.Location.File != "" && !e.IsExternal() {
				f := g.AddFile(e.Location.File)
				if !slices.Contains(f.Namespaces, n.ID) {
					f.Namespaces = append(f.Namespaces, n.ID)
				}
			}
			ref = graph.NamespaceRef(n.ID)
		case ir.ClassFile:
			f := g.AddFile(e.Name)
			applyDefinition(&f.Definition, e)
			ref = graph.FileRef(f.ID)
		case ir.ClassDir:
			d := g.AddDir(e.Name)
			applyDefinition(&d.Definition, e)
			ref = graph.DirRef(d.ID)
		case ir.ClassPage:
			p := g.AddPage(e.Name, e.Title, location(e))
			p.Example = strings.EqualFold(e.Kind, "example")
			applyDefinition(&p.Definition, e)
			ref = graph.PageRef(p.ID)
		case ir.ClassGroup:
			gr := g.AddGroup(e.Name, e.Title, location(e))
			applyDefinition(&gr.Definition, e)
			ref = graph.GroupRef(gr.ID)
		default:
			continue
		}
		st.Attempted++
		st.Resolved++
		b.scopes[i] = ref
	}
	return st, nil
}

// CompoundResolver creates compounds and links them to their enclosing
// compound or namespace and to the file declaring them.
type CompoundResolver struct{}

func NewCompoundResolver() *CompoundResolver { return &CompoundResolver{} }

func (r *CompoundResolver) Name() string { return "compounds" }

func (r *CompoundResolver) Resolve(_ context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph

	b.each(ir.ClassCompound, func(i int, e *ir.Entry) {
		st.Attempted++
		k, _, _ := ir.ParseKind(e.Kind)
		ct, _ := graph.ParseCompoundType(k)
		c := g.AddCompound(strings.TrimPrefix(e.Name, "::"), ct, location(e))
		if c == nil {
			st.Skipped++
			return
		}
		applyDefinition(&c.Definition, e)
		c.Prot = graph.ParseProtection(e.Protection)
		c.IsLocal = e.Local
		if len(c.TemplateArgs) == 0 {
			c.TemplateArgs = convertArgs(e.TemplateArgs)
		}
		b.classes[i] = c.ID
		st.Resolved++
	})

	// Outer scopes are linked once every compound exists, so a nested class
	// may precede its enclosing class in the stream.
	b.each(ir.ClassCompound, func(i int, e *ir.Entry) {
		c := g.Class(b.classes[i])
		if c == nil || !c.Outer.IsZero() {
			return
		}
		if scope := graph.ScopeOf(c.Name); scope != "" {
			switch outer, ok := g.FindClass(scope); {
			case ok:
				c.Outer = graph.ClassRef(outer.ID)
				outer.AddNested(c.ID)
			default:
				ns, known := g.FindNamespace(scope)
				if !known {
					ns = g.AddNamespace(scope, c.Loc)
					ns.Artificial = true
				}
				c.Outer = graph.NamespaceRef(ns.ID)
				ns.Classes = append(ns.Classes, c.ID)
			}
		}
		if e.Location.File != "" && !e.IsExternal() {
			f := g.AddFile(e.Location.File)
			f.Classes = append(f.Classes, c.ID)
			if c.Outer.IsZero() {
				c.Outer = graph.FileRef(f.ID)
			}
		}
	})
	return st, nil
}
