package crawler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/extractor"
	"symgraph/internal/ir"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n*.gen.h\n")
	writeFile(t, root, "include/geo/shape.h", "namespace geo { class Shape {}; }\n")
	writeFile(t, root, "src/shape.cpp", "int area() { return 0; }\n")
	writeFile(t, root, "src/table.gen.h", "struct Table {};\n")
	writeFile(t, root, "generated/out.h", "struct Out {};\n")
	writeFile(t, root, "vendor/lib.h", "struct Lib {};\n")
	writeFile(t, root, "experimental/draft.h", "struct Draft {};\n")
	writeFile(t, root, "README.md", "# geo\n")

	ext, err := extractor.NewExtractor("cpp")
	require.NoError(t, err)
	c := NewCrawler(ext, []string{"experimental/"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got := map[string][]ir.Entry{}
	err = c.ScanProject(context.Background(), root, func(path string, entries []ir.Entry) {
		got[path] = entries
	})
	require.NoError(t, err)

	var paths []string
	for p := range got {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"include/geo/shape.h", "src/shape.cpp"}, paths)

	t.Run("Locations are relative to the root", func(t *testing.T) {
		for _, e := range got["include/geo/shape.h"] {
			assert.Equal(t, "include/geo/shape.h", e.Location.File)
		}
		var names []string
		for _, e := range got["include/geo/shape.h"] {
			names = append(names, e.Kind+":"+e.Name)
		}
		assert.Contains(t, names, "class:geo::Shape")
	})
}

func TestCrawler_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.h", "struct A {};\n")
	ext, err := extractor.NewExtractor("cpp")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewCrawler(ext, nil, nil).ScanProject(ctx, root, func(string, []ir.Entry) {
		t.Fatal("no file expected after cancellation")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
