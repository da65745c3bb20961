package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_Nesting(t *testing.T) {
	g := newTestGraph(Options{})
	top := g.AddGroup("top", "Top", Location{File: "top.h", Line: 1})
	mid := g.AddGroup("mid", "Mid", Location{File: "mid.h", Line: 1})
	leaf := g.AddGroup("leaf", "Leaf", Location{File: "leaf.h", Line: 1})

	require.True(t, top.AddGroup(mid.ID))
	require.True(t, mid.AddGroup(leaf.ID))

	t.Run("Containment is transitive", func(t *testing.T) {
		assert.True(t, top.ContainsGroup(top.ID))
		assert.True(t, top.ContainsGroup(mid.ID))
		assert.True(t, top.ContainsGroup(leaf.ID))
		assert.False(t, leaf.ContainsGroup(top.ID))
	})

	t.Run("Nesting sets the outer group", func(t *testing.T) {
		assert.Equal(t, GroupRef(top.ID), mid.Outer)
		assert.Equal(t, []GroupID{top.ID}, mid.PartOfGroups)
	})

	t.Run("Self nesting is refused", func(t *testing.T) {
		before := len(g.Diagnostics().Of(DiagRejection))
		assert.False(t, top.AddGroup(top.ID))
		diags := g.Diagnostics().Of(DiagRejection)
		require.Len(t, diags, before+1)
		assert.Contains(t, diags[len(diags)-1].Message, "Refusing to add group top to itself")
	})

	t.Run("Cycles are refused", func(t *testing.T) {
		before := len(g.Diagnostics().Of(DiagRejection))
		assert.False(t, leaf.AddGroup(top.ID))
		diags := g.Diagnostics().Of(DiagRejection)
		require.Len(t, diags, before+1)
		assert.Contains(t, diags[len(diags)-1].Message, "already a subgroup")
		assert.Empty(t, leaf.SubGroups)
	})

	t.Run("Existing nesting is a no-op", func(t *testing.T) {
		before := g.Diagnostics().Len()
		assert.False(t, top.AddGroup(leaf.ID))
		assert.False(t, top.AddGroup(mid.ID))
		assert.Equal(t, []GroupID{mid.ID}, top.SubGroups)
		assert.Equal(t, before, g.Diagnostics().Len())
	})
}

func TestGroup_InsertMember(t *testing.T) {
	t.Run("Duplicate declaration becomes an alias", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "API", Location{})
		def := addMember(t, g, MemberFunction, "compute", Public)
		def.Arguments = []Arg{{Type: "int", Name: "x"}}
		decl := addMember(t, g, MemberFunction, "compute", Public)
		decl.Arguments = []Arg{{Type: "int", Name: "value"}}

		assert.True(t, gr.InsertMember(def.ID, false))
		assert.False(t, gr.InsertMember(decl.ID, false))
		assert.Equal(t, def.ID, decl.GroupAlias)
		assert.Len(t, gr.AllMembers().Lookup("compute").Members, 1)
		assert.Equal(t, []MemberID{def.ID}, gr.MemberList(ListDecFuncMembers).Members())
	})

	t.Run("Overloads stay separate", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "", Location{})
		a := addMember(t, g, MemberFunction, "compute", Public)
		a.Arguments = []Arg{{Type: "int"}}
		b := addMember(t, g, MemberFunction, "compute", Public)
		b.Arguments = []Arg{{Type: "double"}}

		assert.True(t, gr.InsertMember(a.ID, false))
		assert.True(t, gr.InsertMember(b.ID, false))
		assert.Equal(t, NoMember, b.GroupAlias)
		assert.Len(t, gr.AllMembers().Lookup("compute").Members, 2)
	})

	t.Run("Different scopes stay separate", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "", Location{})
		ns := g.AddNamespace("ns", Location{})
		a := addMember(t, g, MemberFunction, "run", Public)
		b := addMember(t, g, MemberFunction, "ns::run", Public)
		b.Outer = NamespaceRef(ns.ID)

		assert.True(t, gr.InsertMember(a.ID, false))
		assert.True(t, gr.InsertMember(b.ID, false))
		assert.Equal(t, NoMember, b.GroupAlias)
	})

	t.Run("Same member twice", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "", Location{})
		m := addMember(t, g, MemberVariable, "counter", Public)
		assert.True(t, gr.InsertMember(m.ID, false))
		assert.False(t, gr.InsertMember(m.ID, false))
		assert.Equal(t, 1, gr.MemberList(ListDecVarMembers).Len())
	})

	t.Run("Hidden members are skipped", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "", Location{})
		m := addMember(t, g, MemberVariable, "secret", Public)
		m.Hidden = true
		assert.False(t, gr.InsertMember(m.ID, false))
		assert.Equal(t, 0, gr.AllMembers().Len())
	})

	t.Run("Doc only skips declaration sections", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "", Location{})
		m := addMember(t, g, MemberTypedef, "handle_t", Public)
		assert.True(t, gr.InsertMember(m.ID, true))
		assert.Nil(t, gr.MemberList(ListDecTypedefMembers))
		assert.True(t, gr.MemberList(ListDocTypedefMembers).Contains(m.ID))
	})

	t.Run("Unexpected kind is reported but indexed", func(t *testing.T) {
		g := newTestGraph(Options{})
		gr := g.AddGroup("api", "", Location{})
		m := addMember(t, g, MemberService, "svc", Public)
		assert.True(t, gr.InsertMember(m.ID, false))
		assert.Len(t, g.Diagnostics().Of(DiagInternalError), 1)
		assert.NotNil(t, gr.AllMembers().Lookup("svc"))
		assert.Empty(t, gr.ListTypes())
	})
}

func TestGroup_RemoveMember(t *testing.T) {
	g := newTestGraph(Options{})
	gr := g.AddGroup("api", "", Location{})
	m := addMember(t, g, MemberFunction, "f", Public)
	m.MemberGroup = "Helpers"
	require.True(t, gr.InsertMember(m.ID, false))
	gr.AddMembersToMemberGroups()
	require.Len(t, gr.MemberGroups(), 1)

	gr.RemoveMember(m.ID)

	assert.Nil(t, gr.AllMembers().Lookup("f"))
	assert.False(t, gr.MemberList(ListDecFuncMembers).Contains(m.ID))
	assert.False(t, gr.MemberList(ListDocFuncMembers).Contains(m.ID))
	assert.Equal(t, 0, gr.MemberGroups()[0].List().Len())
}

func TestGroup_Entities(t *testing.T) {
	g := newTestGraph(Options{})
	gr := g.AddGroup("core", "Core", Location{})
	c := g.AddCompound("Engine", CompoundClass, Location{})
	hidden := g.AddCompound("Detail", CompoundClass, Location{})
	hidden.Hidden = true
	page := g.AddPage("intro", "Introduction", Location{})
	example := g.AddPage("demo.cpp", "", Location{})
	example.Example = true

	assert.True(t, gr.AddCompound(c.ID))
	assert.False(t, gr.AddCompound(c.ID))
	assert.False(t, gr.AddCompound(hidden.ID))
	assert.True(t, gr.AddPage(page.ID))
	assert.True(t, gr.AddPage(example.ID))

	assert.Equal(t, []ClassID{c.ID}, gr.Compounds)
	assert.Equal(t, []PageID{page.ID}, gr.Pages)
	assert.Equal(t, []PageID{example.ID}, gr.Examples)
	assert.Equal(t, 3, gr.CountMembers())

	gr.removeEntity(PageRef(example.ID))
	assert.Empty(t, gr.Examples)
}
