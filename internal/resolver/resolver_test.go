package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
)

func resolve(t *testing.T, opts graph.Options, entries ...ir.Entry) *Build {
	t.Helper()
	b := NewBuild(graph.New(opts, discardLogger()), entries)
	results := NewDefaultChain().WithLogger(discardLogger()).Run(context.Background(), b)
	require.Len(t, results, 8)
	for _, r := range results {
		require.NoError(t, r.Err, r.Resolver)
	}
	return b
}

func pri(n int) *int { return &n }

func at(file string, line int) ir.Location { return ir.Location{File: file, Line: line} }

func TestResolve_EndToEnd(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "class", Name: "Base", Location: at("base.h", 1)},
		ir.Entry{Kind: "class", Name: "Derived", Location: at("derived.h", 1),
			Bases: []ir.BaseRef{{Name: "Base", Protection: "public"}}},
		ir.Entry{Kind: "function", Name: "m", Scope: "Derived", Location: at("derived.h", 4),
			Args: "(int)", Arguments: []ir.Arg{{Type: "int"}},
			Groups: []ir.GroupRef{{Name: "api", Priority: pri(3)}}},
		ir.Entry{Kind: "function", Name: "m", Scope: "Base", Location: at("base.h", 4),
			Args: "(double)", Arguments: []ir.Arg{{Type: "double"}},
			Groups: []ir.GroupRef{{Name: "api", Priority: pri(3)}}},
		ir.Entry{Kind: "group", Name: "api", Title: "API"},
	)
	g := b.Graph

	base, ok := g.FindClass("Base")
	require.True(t, ok)
	derived, ok := g.FindClass("Derived")
	require.True(t, ok)

	require.Len(t, derived.BaseClasses(), 1)
	assert.Equal(t, base.ID, derived.BaseClasses()[0].Class)
	assert.Equal(t, graph.Public, derived.BaseClasses()[0].Prot)
	require.Len(t, base.SubClasses(), 1)
	assert.Equal(t, derived.ID, base.SubClasses()[0].Class)
	assert.True(t, derived.IsBaseClass(base.ID, true, 0))

	api, ok := g.FindGroup("api")
	require.True(t, ok)
	assert.Len(t, api.GroupedMembers(), 2)
	assert.Equal(t, 2, api.NumDocMembers())

	assert.Empty(t, b.Unresolved)
	assert.True(t, g.Frozen())
}

func TestResolve_GroupPriority(t *testing.T) {
	groups := []ir.Entry{{Kind: "group", Name: "A"}, {Kind: "group", Name: "B"}}

	t.Run("Higher priority wins", func(t *testing.T) {
		b := resolve(t, graph.Options{}, append(groups,
			ir.Entry{Kind: "function", Name: "f", Location: at("a.h", 1), Doc: "f.",
				Groups: []ir.GroupRef{{Name: "A", Priority: pri(5)}}},
			ir.Entry{Kind: "function", Name: "f", Location: at("a.h", 1), Doc: "f.",
				Groups: []ir.GroupRef{{Name: "B", Priority: pri(7)}}},
		)...)
		b2, _ := b.Graph.FindGroup("B")
		id, _ := b.MemberOf(3)
		assert.Equal(t, b2.ID, b.Graph.Member(id).GroupID())
	})

	t.Run("Documented owner is kept", func(t *testing.T) {
		b := resolve(t, graph.Options{}, append(groups,
			ir.Entry{Kind: "function", Name: "f", Location: at("a.h", 1), Doc: "Documented.",
				Groups: []ir.GroupRef{{Name: "A", Priority: pri(5)}}},
			ir.Entry{Kind: "function", Name: "f", Location: at("a.h", 9),
				Groups: []ir.GroupRef{{Name: "B", Priority: pri(5)}}},
		)...)
		a, _ := b.Graph.FindGroup("A")
		id, _ := b.MemberOf(2)
		assert.Equal(t, a.ID, b.Graph.Member(id).GroupID())
		assert.Len(t, b.Graph.Diagnostics().Of(graph.DiagAmbiguity), 1)
	})

	t.Run("Explicit sequence decides ties", func(t *testing.T) {
		b := resolve(t, graph.Options{}, append(groups,
			ir.Entry{Seq: 20, Kind: "variable", Name: "v", Location: at("a.h", 1),
				Groups: []ir.GroupRef{{Name: "A"}}},
			ir.Entry{Seq: 10, Kind: "variable", Name: "v", Location: at("a.h", 1),
				Groups: []ir.GroupRef{{Name: "B"}}},
		)...)
		bg, _ := b.Graph.FindGroup("B")
		m := b.Graph.MembersNamed("v")
		require.Len(t, m, 1)
		assert.Equal(t, bg.ID, b.Graph.Member(m[0]).GroupID())
	})
}

func TestResolve_GroupAlias(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "group", Name: "api"},
		ir.Entry{Kind: "function", Name: "compute", Location: at("calc.h", 3),
			Arguments: []ir.Arg{{Type: "int", Name: "x"}}, Groups: []ir.GroupRef{{Name: "api", Command: "ingroup"}}},
		ir.Entry{Kind: "function", Name: "compute", Location: at("calc.cpp", 10), Doc: "Computes.",
			Arguments: []ir.Arg{{Type: "int", Name: "value"}}, Groups: []ir.GroupRef{{Name: "api", Command: "ingroup"}}},
	)
	ids := b.Graph.MembersNamed("compute")
	require.Len(t, ids, 2)
	api, _ := b.Graph.FindGroup("api")
	assert.Equal(t, 1, api.NumDocMembers())
	assert.Equal(t, ids[0], b.Graph.Member(ids[1]).GroupAlias)
}

func TestResolve_DeclarationAndDefinitionMerge(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "class", Name: "Widget", Location: at("widget.h", 1)},
		ir.Entry{Kind: "function", Name: "draw", Scope: "Widget", Location: at("widget.h", 5),
			Arguments: []ir.Arg{{Type: "int"}}},
		ir.Entry{Kind: "function", Name: "Widget::draw", Location: at("widget.cpp", 20),
			Arguments: []ir.Arg{{Type: "int", Name: "depth"}}, Doc: "Draws."},
		ir.Entry{Kind: "function", Name: "Widget", Scope: "Widget", Location: at("widget.h", 3)},
		ir.Entry{Kind: "function", Name: "~Widget", Scope: "Widget", Location: at("widget.h", 4)},
	)
	w, _ := b.Graph.FindClass("Widget")
	draw := w.AllMembers().Lookup("draw")
	require.NotNil(t, draw)
	require.Len(t, draw.Members, 1)
	m := b.Graph.Member(draw.Members[0].Member)
	assert.Equal(t, "Draws.", m.Doc)
	assert.Equal(t, "widget.h", m.Loc.File)

	ctor := b.Graph.Member(w.AllMembers().Lookup("Widget").Members[0].Member)
	dtor := b.Graph.Member(w.AllMembers().Lookup("~Widget").Members[0].Member)
	assert.True(t, ctor.Ctor)
	assert.True(t, dtor.Dtor)
	assert.True(t, w.MemberList(graph.ListConstructors).Contains(ctor.ID))
}

func TestResolve_TemplateBases(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "class", Name: "Vec", TemplateArgs: []ir.Arg{{Type: "typename", Name: "T"}}},
		ir.Entry{Kind: "class", Name: "Container"},
		ir.Entry{Kind: "class", Name: "Vec", Bases: []ir.BaseRef{{Name: "Container", Protection: "public"}}},
		ir.Entry{Kind: "function", Name: "at", Scope: "Vec", Type: "T", Arguments: []ir.Arg{{Type: "size_t"}}},
		ir.Entry{Kind: "class", Name: "IntVec", Bases: []ir.BaseRef{{Name: "Vec<int>", Protection: "public"}}},
		ir.Entry{Kind: "struct", Name: "Ints", Bases: []ir.BaseRef{{Name: "Vec< int >"}}},
	)
	g := b.Graph
	vec, _ := g.FindClass("Vec")
	intVec, _ := g.FindClass("IntVec")
	ints, _ := g.FindClass("Ints")

	instID, ok := vec.TemplateInstance("<int>")
	require.True(t, ok)
	assert.Equal(t, graph.CachedInstance, vec.TemplateInstanceState("<int>"))
	assert.Equal(t, instID, intVec.BaseClasses()[0].Class)
	assert.Equal(t, instID, ints.BaseClasses()[0].Class)
	assert.Equal(t, graph.Public, ints.BaseClasses()[0].Prot, "struct bases default to public")

	inst := g.Class(instID)
	get := inst.AllMembers().Lookup("at")
	require.NotNil(t, get)
	assert.Equal(t, "int", g.Member(get.Members[0].Member).Type)

	container, _ := g.FindClass("Container")
	require.Len(t, inst.BaseClasses(), 1)
	assert.Equal(t, container.ID, inst.BaseClasses()[0].Class)
	assert.True(t, intVec.IsBaseClass(container.ID, true, 0))
}

func TestResolve_Unresolved(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "class", Name: "D", Location: at("d.h", 2), Bases: []ir.BaseRef{{Name: "Missing"}}},
		ir.Entry{Kind: "variable", Name: "x", Scope: "nowhere", Location: at("d.h", 5)},
		ir.Entry{Kind: "function", Name: "f", Location: at("d.h", 7), Groups: []ir.GroupRef{{Name: "ghost"}}},
	)
	kinds := map[string]string{}
	for _, u := range b.Unresolved {
		kinds[u.Kind] = u.Target
	}
	assert.Equal(t, map[string]string{"base": "Missing", "scope": "nowhere", "group": "ghost"}, kinds)
	assert.Len(t, b.Graph.Diagnostics().Of(graph.DiagUnresolved), 3)

	f, ok := b.Graph.FindFile("d.h")
	require.True(t, ok)
	assert.NotNil(t, f.AllMembers().Lookup("x"), "members of unknown scopes fall back to their file")
}

func TestResolve_GroupNesting(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "group", Name: "outer", Groups: []ir.GroupRef{{Name: "inner"}}},
		ir.Entry{Kind: "group", Name: "inner", Groups: []ir.GroupRef{{Name: "outer"}}},
		ir.Entry{Kind: "group", Name: "self", Groups: []ir.GroupRef{{Name: "self"}}},
		ir.Entry{Kind: "class", Name: "Engine", Groups: []ir.GroupRef{{Name: "inner", Command: "weakgroup"}, {Name: "outer", Command: "ingroup"}}},
	)
	g := b.Graph
	outer, _ := g.FindGroup("outer")
	inner, _ := g.FindGroup("inner")
	self, _ := g.FindGroup("self")

	assert.Equal(t, []graph.GroupID{outer.ID}, inner.SubGroups)
	assert.Empty(t, outer.SubGroups)
	assert.Empty(t, self.SubGroups)
	assert.Len(t, g.Diagnostics().Of(graph.DiagRejection), 2)

	engine, _ := g.FindClass("Engine")
	assert.Equal(t, outer.ID, engine.GroupID())
	assert.Equal(t, []graph.ClassID{engine.ID}, outer.Compounds)
}

func TestResolve_EnumsAndAnonymousTypes(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "namespace", Name: "ui"},
		ir.Entry{Kind: "enum", Name: "ui::@0"},
		ir.Entry{Kind: "enumvalue", Name: "ui::Red", Enum: "ui::@0"},
		ir.Entry{Kind: "enumvalue", Name: "ui::Green", Enum: "@0"},
		ir.Entry{Kind: "variable", Name: "ui::color", Type: "ui::@0"},
		ir.Entry{Kind: "struct", Name: "ui::@1"},
		ir.Entry{Kind: "variable", Name: "x", Scope: "ui::@1", Type: "int"},
		ir.Entry{Kind: "variable", Name: "ui::point", Type: "struct ui::@1", AnonType: "@1"},
	)
	g := b.Graph
	ns, _ := g.FindNamespace("ui")
	enumID := ns.AllMembers().Lookup("@0").Members[0].Member
	assert.Len(t, g.Member(enumID).EnumValues, 2)
	assert.Equal(t, 0, ns.MemberList(graph.ListDecEnumMembers).CountDecMembers())

	point := g.Member(ns.AllMembers().Lookup("point").Members[0].Member)
	anon, _ := g.FindClass("ui::@1")
	assert.Equal(t, anon.ID, point.AnonType)
}

func TestResolve_Categories(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "class", Name: "Foo"},
		ir.Entry{Kind: "category", Name: "Foo(Extra)"},
		ir.Entry{Kind: "function", Name: "bar", Scope: "Foo(Extra)"},
		ir.Entry{Kind: "category", Name: "Nope(Extra)"},
	)
	foo, _ := b.Graph.FindClass("Foo")
	assert.Len(t, foo.Categories, 1)
	assert.NotNil(t, foo.AllMembers().Lookup("bar"))
	require.Len(t, b.Unresolved, 1)
	assert.Equal(t, "category", b.Unresolved[0].Kind)
}

func TestResolve_Usage(t *testing.T) {
	b := resolve(t, graph.Options{},
		ir.Entry{Kind: "class", Name: "Node"},
		ir.Entry{Kind: "class", Name: "List", TemplateArgs: []ir.Arg{{Type: "class", Name: "T"}}},
		ir.Entry{Kind: "class", Name: "Tree"},
		ir.Entry{Kind: "variable", Name: "root", Scope: "Tree", Type: "Node *", Protection: "public"},
		ir.Entry{Kind: "variable", Name: "parent", Scope: "Tree", Type: "Node *", Protection: "public"},
		ir.Entry{Kind: "variable", Name: "kids", Scope: "Tree", Type: "List<Node>", Protection: "protected"},
		ir.Entry{Kind: "variable", Name: "secret", Scope: "Tree", Type: "Node", Protection: "private"},
	)
	g := b.Graph
	tree, _ := g.FindClass("Tree")
	node, _ := g.FindClass("Node")
	list, _ := g.FindClass("List")

	used := tree.UsedClasses()
	require.Len(t, used, 2)
	assert.Equal(t, node.ID, used[0].Class)
	assert.Equal(t, []string{"root", "parent", "kids"}, used[0].Accessors, "private usages are dropped without extract_private")
	assert.Equal(t, list.ID, used[1].Class)
	assert.Equal(t, "<Node>", used[1].TemplSpec)
	require.Len(t, node.UsedByClasses(), 1)
	assert.Contains(t, list.VariableInstances(), "<Node>")
}
