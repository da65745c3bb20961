package resolver

import (
	"context"
	"regexp"
	"strings"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
)

// InheritanceResolver binds base class names to compounds. A base written
// as a template specialization binds to an instance of its master, created
// on first use together with copies of the master's members and bases.
type InheritanceResolver struct{}

func NewInheritanceResolver() *InheritanceResolver { return &InheritanceResolver{} }

func (r *InheritanceResolver) Name() string { return "inheritance" }

func (r *InheritanceResolver) Resolve(ctx context.Context, b *Build) (ResolveStats, error) {
	var (
		st    ResolveStats
		fresh []*graph.Compound
	)
	g := b.Graph
	for i := range b.Entries {
		e := &b.Entries[i]
		id, ok := b.classes[i]
		if !ok || len(e.Bases) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		derived := g.Class(id)
		for _, base := range e.Bases {
			st.Attempted++
			prot := graph.ParseProtection(base.Protection)
			if base.Protection == "" && derived.Type == graph.CompoundClass {
				prot = graph.Private
			}
			virt := graph.Normal
			if base.Virtual {
				virt = graph.Virtual
			}

			// Specializations bind through their master so repeated uses
			// of one spec share the instance.
			masterName, spec := graph.SplitTemplateName(base.Name)
			var target *graph.Compound
			if spec != "" {
				target = b.lookupClass(derived.Name, masterName)
			}
			if target == nil {
				target = b.lookupClass(derived.Name, base.Name)
			}
			if target == nil {
				b.unresolved(e, "base", base.Name, ReasonNoCandidate)
				st.Skipped++
				continue
			}
			if spec != "" && target.IsTemplate() && target.TemplateMaster == graph.NoClass {
				instID, isFresh := target.InsertTemplateInstance(e.Location.File, e.Location.Line, e.Location.Column, spec)
				inst := g.Class(instID)
				if isFresh {
					inst.AddMembersToTemplateInstance(b.Substituter)
					fresh = append(fresh, inst)
				}
				target = inst
			}
			derived.InsertBaseClass(target.ID, base.Name, prot, virt, spec)
			st.Resolved++
		}
	}

	for _, inst := range fresh {
		master := g.Class(inst.TemplateMaster)
		for _, edge := range master.BaseClasses() {
			inst.InsertBaseClass(edge.Class, edge.UsedName, edge.Prot, edge.Virt, edge.TemplSpec)
		}
	}
	return st, nil
}

// CategoryResolver merges categories into the class they extend.
type CategoryResolver struct{}

func NewCategoryResolver() *CategoryResolver { return &CategoryResolver{} }

func (r *CategoryResolver) Name() string { return "categories" }

func (r *CategoryResolver) Resolve(_ context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph
	b.each(ir.ClassCompound, func(i int, e *ir.Entry) {
		cat := g.Class(b.classes[i])
		if cat == nil || cat.Type != graph.CompoundCategory {
			return
		}
		st.Attempted++
		target, ok := g.FindClass(cat.ExtendedName())
		if !ok || target.Type == graph.CompoundCategory {
			b.unresolved(e, "category", cat.ExtendedName(), ReasonNoCandidate)
			st.Skipped++
			return
		}
		target.MergeCategory(cat.ID)
		st.Resolved++
	})
	return st, nil
}

// UsageResolver derives collaboration edges from the types of variables.
type UsageResolver struct{}

func NewUsageResolver() *UsageResolver { return &UsageResolver{} }

func (r *UsageResolver) Name() string { return "usage" }

var typeNameRe = regexp.MustCompile(`(?:::)?[A-Za-z_]\w*(?:::[A-Za-z_]\w*)*`)

var builtinTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "signed": true, "unsigned": true,
	"const": true, "volatile": true, "static": true, "mutable": true,
	"struct": true, "class": true, "union": true, "enum": true, "typename": true,
	"auto": true, "wchar_t": true, "size_t": true,
}

func (r *UsageResolver) Resolve(ctx context.Context, b *Build) (ResolveStats, error) {
	var st ResolveStats
	g := b.Graph
	for _, c := range g.Classes() {
		if c.TemplateMaster != graph.NoClass || c.IsExternal() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		c.AllMembers().Each(func(_ string, mi graph.MemberInfo) {
			m := g.Member(mi.Member)
			if m == nil || m.Kind != graph.MemberVariable || mi.Inherited {
				return
			}
			for _, ref := range typeRefs(m.Type) {
				st.Attempted++
				target := b.lookupClass(c.Name, ref.name)
				if target == nil || target.ID == c.ID {
					st.Skipped++
					continue
				}
				if ref.spec != "" && target.IsTemplate() {
					target.GetVariableInstance(ref.spec, b.Substituter)
				}
				c.AddUsedClass(target.ID, m.LocalName, mi.Prot, ref.spec)
				target.AddUsedByClass(c.ID, m.LocalName, mi.Prot, ref.spec)
				st.Resolved++
			}
		})
	}
	return st, nil
}

type typeRef struct {
	name string
	spec string
}

// typeRefs lists the class-like names in a type string, each with the
// template specialization directly following it.
func typeRefs(typ string) []typeRef {
	var out []typeRef
	for _, loc := range typeNameRe.FindAllStringIndex(typ, -1) {
		name := strings.TrimPrefix(typ[loc[0]:loc[1]], "::")
		if builtinTypes[name] {
			continue
		}
		out = append(out, typeRef{name: name, spec: specAt(typ, loc[1])})
	}
	return out
}

func specAt(s string, i int) string {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	if i >= len(s) || s[i] != '<' {
		return ""
	}
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return graph.RemoveRedundantWhitespace(s[i : j+1])
			}
		}
	}
	return ""
}
