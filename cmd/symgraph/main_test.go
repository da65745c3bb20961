package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `/// @defgroup core Core types
#pragma once

namespace app {

/// Base of all widgets.
/// @ingroup core
class Widget {
public:
    virtual ~Widget();
};

/// A clickable widget.
class Button : public Widget {
public:
    void click();
};

}
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.h"), []byte(header), 0o644))

	cfgPath := filepath.Join(dir, "symgraph.yaml")
	cfg := "project:\n  root: " + dir + "\noutput:\n  tag_file: " + filepath.Join(dir, "app.tag") +
		"\n  metrics_textfile: " + filepath.Join(dir, "symgraph.prom") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	db := filepath.Join(dir, "out", "graph.db")

	t.Run("resolve", func(t *testing.T) {
		out := run(t, "resolve", "--config", cfgPath, "--db", db)
		assert.Contains(t, out, "Snapshot ")
		assert.FileExists(t, db)
		assert.FileExists(t, filepath.Join(dir, "app.tag"))
		assert.FileExists(t, filepath.Join(dir, "symgraph.prom"))

		tag, err := os.ReadFile(filepath.Join(dir, "app.tag"))
		require.NoError(t, err)
		assert.Contains(t, string(tag), "<name>app::Button</name>")
	})

	t.Run("inspect summary", func(t *testing.T) {
		out := run(t, "inspect", "--config", cfgPath, "--db", db)
		assert.Contains(t, out, "Compounds 2")
	})

	t.Run("inspect compound", func(t *testing.T) {
		out := run(t, "inspect", "--config", cfgPath, "--db", db, "app::Button")
		assert.Contains(t, out, "class app::Button")
		assert.Contains(t, out, "base public non-virtual app::Widget")
		assert.Contains(t, out, "public function click()")
	})

	t.Run("inspect group", func(t *testing.T) {
		out := run(t, "inspect", "--config", cfgPath, "--db", db, "core")
		assert.Contains(t, out, `group core  "Core types"`)
		assert.Contains(t, out, "compound app::Widget")
	})

	t.Run("neighbors", func(t *testing.T) {
		out := run(t, "neighbors", "--config", cfgPath, "--db", db, "--hops", "1", "app::Widget")
		assert.Contains(t, out, "0  app::Widget")
		assert.Contains(t, out, "1  app::Button")
		assert.Contains(t, out, "app::Button -inherits-> app::Widget [public]")
	})

	t.Run("neighbors mermaid", func(t *testing.T) {
		out := run(t, "neighbors", "--config", cfgPath, "--db", db, "--format", "mermaid", "app::Button")
		assert.Contains(t, out, "app_Widget <|-- app_Button")
	})
}
