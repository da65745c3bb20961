package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/graph"
	"symgraph/internal/ir"
	"symgraph/internal/resolver"
)

func buildGraph(t *testing.T, entries ...ir.Entry) *graph.Graph {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := graph.New(graph.Options{}, logger)
	b := resolver.NewBuild(g, entries)
	for _, r := range resolver.NewDefaultChain().WithLogger(logger).Run(context.Background(), b) {
		require.NoError(t, r.Err)
	}
	return g
}

func sampleGraph(t *testing.T) *graph.Graph {
	api := []ir.GroupRef{{Name: "api"}}
	return buildGraph(t,
		ir.Entry{Kind: "group", Name: "api", Title: "Public API"},
		ir.Entry{Kind: "group", Name: "detail", Groups: api},
		ir.Entry{Kind: "class", Name: "Base", Location: ir.Location{File: "base.h", Line: 2}},
		ir.Entry{Kind: "class", Name: "Derived", Location: ir.Location{File: "derived.h", Line: 4},
			Bases: []ir.BaseRef{{Name: "Base", Protection: "public"}}, Groups: api},
		ir.Entry{Kind: "function", Name: "m", Scope: "Derived", Type: "void", Args: "()"},
		ir.Entry{Kind: "class", Name: "Node"},
		ir.Entry{Kind: "class", Name: "Tree"},
		ir.Entry{Kind: "variable", Name: "root", Scope: "Tree", Type: "Node *"},
		ir.Entry{Kind: "class", Name: "Vec", TemplateArgs: []ir.Arg{{Type: "typename", Name: "T"}}},
		ir.Entry{Kind: "class", Name: "Ints", Bases: []ir.BaseRef{{Name: "Vec<int>"}}},
		ir.Entry{Kind: "function", Name: "compute", Location: ir.Location{File: "calc.h", Line: 1},
			Arguments: []ir.Arg{{Type: "int"}}, Groups: api},
		ir.Entry{Kind: "function", Name: "compute", Location: ir.Location{File: "calc.cpp", Line: 8},
			Arguments: []ir.Arg{{Type: "int", Name: "x"}}, Doc: "Computes.", Groups: api},
	)
}

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "symgraph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_EmptyDatabase(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.LoadSummary(ctx)
	assert.True(t, errors.Is(err, ErrNoSnapshot))
	_, err = store.FindCompound(ctx, "Base")
	assert.True(t, errors.Is(err, ErrNoSnapshot))
	_, err = store.FindGroup(ctx, "api")
	assert.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestSQLiteStore_SaveGraph(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := sampleGraph(t)

	runID, err := store.SaveGraph(ctx, g)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	t.Run("Summary", func(t *testing.T) {
		sum, err := store.LoadSummary(ctx)
		require.NoError(t, err)
		st := g.Stats()
		assert.Equal(t, runID, sum.RunID)
		assert.Equal(t, st.Compounds, sum.Compounds)
		assert.Equal(t, st.Members, sum.Members)
		assert.Equal(t, 2, sum.Groups)
		assert.False(t, sum.CreatedAt.IsZero())
	})

	t.Run("Inheritance both ways", func(t *testing.T) {
		derived, err := store.FindCompound(ctx, "Derived")
		require.NoError(t, err)
		assert.Equal(t, "class", derived.Kind)
		assert.Equal(t, "derived.h", derived.File)
		assert.Equal(t, 4, derived.Line)
		assert.Equal(t, "api", derived.Group)
		assert.Equal(t, []EdgeRecord{{Name: "Base", UsedName: "Base", Protection: "public", Virtualness: "non-virtual"}}, derived.Bases)
		require.Len(t, derived.Members, 1)
		assert.Equal(t, "m", derived.Members[0].Name)
		assert.Equal(t, "function", derived.Members[0].Kind)

		base, err := store.FindCompound(ctx, "Base")
		require.NoError(t, err)
		require.Len(t, base.Subs, 1)
		assert.Equal(t, "Derived", base.Subs[0].Name)
	})

	t.Run("Usage", func(t *testing.T) {
		tree, err := store.FindCompound(ctx, "Tree")
		require.NoError(t, err)
		assert.Equal(t, []UsageRecord{{Name: "Node", Accessors: []string{"root"}}}, tree.Uses)

		node, err := store.FindCompound(ctx, "Node")
		require.NoError(t, err)
		require.Len(t, node.UsedBy, 1)
		assert.Equal(t, "Tree", node.UsedBy[0].Name)
	})

	t.Run("Template instance", func(t *testing.T) {
		inst, err := store.FindCompound(ctx, "Vec<int>")
		require.NoError(t, err)
		assert.True(t, inst.Instance)
		assert.Equal(t, "Vec", inst.TemplateMaster)

		ints, err := store.FindCompound(ctx, "Ints")
		require.NoError(t, err)
		assert.Equal(t, "Vec<int>", ints.Bases[0].Name)
		assert.Equal(t, "<int>", ints.Bases[0].TemplSpec)
	})

	t.Run("Group contents", func(t *testing.T) {
		api, err := store.FindGroup(ctx, "api")
		require.NoError(t, err)
		assert.Equal(t, "Public API", api.Title)
		assert.Equal(t, []string{"detail"}, api.SubGroups)
		assert.Equal(t, []string{"Derived"}, api.Compounds)
		require.Len(t, api.Members, 1, "the duplicate declaration is an alias")
		assert.Equal(t, "compute", api.Members[0].Name)
		assert.Equal(t, "", api.Members[0].Scope)
		assert.Equal(t, 3, api.Members[0].Priority)

		detail, err := store.FindGroup(ctx, "detail")
		require.NoError(t, err)
		assert.Equal(t, []string{"api"}, detail.Parents)
	})

	t.Run("Missing names", func(t *testing.T) {
		_, err := store.FindCompound(ctx, "Nope")
		assert.True(t, errors.Is(err, ErrNotFound))
		_, err = store.FindGroup(ctx, "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestSQLiteStore_SaveGraph_ReplacesSnapshot(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.SaveGraph(ctx, sampleGraph(t))
	require.NoError(t, err)

	g2 := buildGraph(t, ir.Entry{Kind: "class", Name: "Solo"})
	second, err := store.SaveGraph(ctx, g2)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	sum, err := store.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, sum.RunID)
	assert.Equal(t, 1, sum.Compounds)
	assert.Equal(t, 0, sum.Groups)

	_, err = store.FindCompound(ctx, "Derived")
	assert.True(t, errors.Is(err, ErrNotFound))
	solo, err := store.FindCompound(ctx, "Solo")
	require.NoError(t, err)
	assert.Empty(t, solo.Bases)
	assert.Empty(t, solo.Members)
}

func TestSQLiteStore_Diagnostics(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	g := buildGraph(t, ir.Entry{Kind: "class", Name: "D", Bases: []ir.BaseRef{{Name: "Missing"}}})

	_, err := store.SaveGraph(ctx, g)
	require.NoError(t, err)
	sum, err := store.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Diagnostics["unresolved"])
}

func TestSQLiteStore_CorruptAccessors(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	_, err := store.SaveGraph(ctx, sampleGraph(t))
	require.NoError(t, err)

	_, err = store.db.ExecContext(ctx, `UPDATE usage SET accessors = 'not json'`)
	require.NoError(t, err)

	_, err = store.FindCompound(ctx, "Tree")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "accessors of Node")
}
