package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespace_InsertMember(t *testing.T) {
	g := newTestGraph(Options{})
	ns := g.AddNamespace("outer::inner", Location{})

	t.Run("Outer namespaces are created", func(t *testing.T) {
		outer, ok := g.FindNamespace("outer")
		require.True(t, ok)
		assert.Equal(t, NamespaceRef(outer.ID), ns.Outer)
		assert.Equal(t, []NamespaceID{ns.ID}, outer.Namespaces)
	})

	t.Run("Routing", func(t *testing.T) {
		f := addMember(t, g, MemberFunction, "outer::inner::run", Public)
		v := addMember(t, g, MemberEnumValue, "outer::inner::Red", Public)
		ns.InsertMember(f.ID)
		ns.InsertMember(v.ID)

		assert.True(t, ns.MemberList(ListDecFuncMembers).Contains(f.ID))
		assert.True(t, ns.MemberList(ListDocFuncMembers).Contains(f.ID))
		assert.NotNil(t, ns.AllMembers().Lookup("Red"))
		assert.Equal(t, []ListType{ListDecFuncMembers, ListDocFuncMembers}, ns.ListTypes())

		ns.RemoveMember(f.ID)
		assert.Equal(t, 0, ns.MemberList(ListDecFuncMembers).Len())
		assert.Nil(t, ns.AllMembers().Lookup("run"))
	})

	t.Run("Unexpected kind", func(t *testing.T) {
		s := addMember(t, g, MemberSignal, "outer::inner::changed", Public)
		ns.InsertMember(s.ID)
		assert.Len(t, g.Diagnostics().Of(DiagInternalError), 1)
		assert.NotNil(t, ns.AllMembers().Lookup("changed"))
	})
}

func TestFile_InsertMember(t *testing.T) {
	g := newTestGraph(Options{})
	f := g.AddFile(`src\net\socket.h`)

	t.Run("Directories are created", func(t *testing.T) {
		assert.Equal(t, "src/net/socket.h", f.Path)
		assert.Equal(t, "socket.h", f.Name)
		dir := g.Dir(f.Dir)
		require.NotNil(t, dir)
		assert.Equal(t, "src/net", dir.Path)
		parent := g.Dir(dir.Parent)
		require.NotNil(t, parent)
		assert.Equal(t, "src", parent.Path)
		assert.Equal(t, []DirID{dir.ID}, parent.SubDirs)
	})

	t.Run("Properties are listed as variables", func(t *testing.T) {
		p := addMember(t, g, MemberProperty, "timeout", Public)
		f.InsertMember(p.ID)
		assert.True(t, f.MemberList(ListDecVarMembers).Contains(p.ID))
	})

	t.Run("Same file path resolves to the same file", func(t *testing.T) {
		again := g.AddFile("src/net/./socket.h")
		assert.Equal(t, f.ID, again.ID)
	})
}

func TestGraph_Definition(t *testing.T) {
	g := newTestGraph(Options{})
	c := g.AddCompound("C", CompoundClass, Location{})

	d, err := g.Definition(ClassRef(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "C", d.Name)

	_, err = g.Definition(MemberRef(7))
	assert.ErrorIs(t, err, ErrUnknownHandle)
}
