package retrieval

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
	"symgraph/internal/resolver"
)

// chain builds A <- B <- C, with B using D and C privately deriving from E.
func chain(t *testing.T, opts graph.Options) *graph.Graph {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := graph.New(opts, logger)
	b := resolver.NewBuild(g, []ir.Entry{
		{Kind: "class", Name: "A"},
		{Kind: "class", Name: "B", Bases: []ir.BaseRef{{Name: "A", Protection: "public"}}},
		{Kind: "class", Name: "C", Bases: []ir.BaseRef{
			{Name: "B", Protection: "public"},
			{Name: "E", Protection: "private"},
		}},
		{Kind: "class", Name: "D"},
		{Kind: "class", Name: "E"},
		{Kind: "variable", Name: "d", Scope: "B", Type: "D *", Protection: "public"},
		{Kind: "class", Name: "Box", TemplateArgs: []ir.Arg{{Type: "typename", Name: "T"}}},
		{Kind: "class", Name: "F", Bases: []ir.BaseRef{{Name: "Box<int>", Protection: "public"}}},
	})
	for _, r := range resolver.NewDefaultChain().WithLogger(logger).Run(context.Background(), b) {
		require.NoError(t, r.Err)
	}
	return g
}

func names(g *graph.Graph, ids []graph.ClassID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Class(id).Name
	}
	return out
}

func seed(t *testing.T, g *graph.Graph, n ...string) []graph.ClassID {
	ids, missing := SeedsByName(g, n...)
	require.Empty(t, missing)
	return ids
}

func TestNeighbors_HopTraversal(t *testing.T) {
	g := chain(t, graph.Options{})

	sg := Neighbors(g, seed(t, g, "B"), Config{MaxHops: 1})
	assert.Equal(t, []string{"B"}, names(g, sg.SeedIDs))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, names(g, sg.NodeIDs))
	assert.Len(t, sg.Edges, 3)
	assert.Equal(t, 1, sg.Depth[seed(t, g, "A")[0]])

	sg = Neighbors(g, seed(t, g, "A"), Config{MaxHops: 3})
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, names(g, sg.NodeIDs),
		"private base E stays hidden without private extraction")
}

func TestNeighbors_PrivateInheritance(t *testing.T) {
	g := chain(t, graph.Options{ExtractPrivate: true})
	sg := Neighbors(g, seed(t, g, "C"), Config{MaxHops: 1})
	assert.ElementsMatch(t, []string{"B", "C", "E"}, names(g, sg.NodeIDs))
}

func TestNeighbors_FiltersByEdgeKind(t *testing.T) {
	g := chain(t, graph.Options{})

	sg := Neighbors(g, seed(t, g, "B"), Config{MaxHops: 3, AllowedKinds: map[EdgeKind]bool{EdgeUses: true}})
	assert.ElementsMatch(t, []string{"B", "D"}, names(g, sg.NodeIDs))
	require.Len(t, sg.Edges, 1)
	assert.Equal(t, EdgeUses, sg.Edges[0].Kind)
	assert.Equal(t, "d", sg.Edges[0].Label)

	sg = Neighbors(g, seed(t, g, "Box"), Config{MaxHops: 2, AllowedKinds: map[EdgeKind]bool{
		EdgeInstanceOf: true, EdgeInherits: true,
	}})
	assert.ElementsMatch(t, []string{"Box", "Box<int>", "F"}, names(g, sg.NodeIDs))
}

func TestNeighbors_Edges(t *testing.T) {
	g := chain(t, graph.Options{})

	t.Run("Zero hops keeps the seeds only", func(t *testing.T) {
		sg := Neighbors(g, seed(t, g, "A", "D"), Config{MaxHops: 0})
		assert.ElementsMatch(t, []string{"A", "D"}, names(g, sg.NodeIDs))
		assert.Empty(t, sg.Edges)
	})

	t.Run("Unknown seeds", func(t *testing.T) {
		_, missing := SeedsByName(g, "A", "Nope")
		assert.Equal(t, []string{"Nope"}, missing)
		sg := Neighbors(g, []graph.ClassID{graph.ClassID(999)}, DefaultConfig())
		assert.Empty(t, sg.NodeIDs)
	})

	t.Run("Nil graph", func(t *testing.T) {
		assert.Empty(t, Neighbors(nil, nil, DefaultConfig()).NodeIDs)
	})
}

func TestMermaid(t *testing.T) {
	g := chain(t, graph.Options{})
	out := Mermaid(g, Neighbors(g, seed(t, g, "B", "F"), Config{MaxHops: 2}))

	assert.Contains(t, out, "classDiagram\n")
	assert.Contains(t, out, `class Box_int_["Box<int>"]`)
	assert.Contains(t, out, "<<instance>> Box_int_")
	assert.Contains(t, out, "A <|-- B\n")
	assert.Contains(t, out, "B ..> D : d\n")
	assert.Contains(t, out, "Box_int_ ..|> Box\n")
	assert.NotContains(t, out, "E", "private bases stay hidden")
}

func TestMermaidID(t *testing.T) {
	assert.Equal(t, "geo_Vec_double__3_", mermaidID("geo::Vec<double, 3>"))
}
