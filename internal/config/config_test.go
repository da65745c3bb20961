package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "symgraph.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Project.Root)
		assert.Equal(t, ".symgraph/graph.db", cfg.Output.Database)
		assert.True(t, cfg.Build.AutoBrief)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	})

	t.Run("YAML sections", func(t *testing.T) {
		p := writeConfig(t, `
project:
  root: src
  name: geo
input:
  sources: [include, lib]
  entry_files: [extra.yaml]
  tag_files:
    - path: std.tag
      name: cppreference
output:
  tag_file: geo.tag
build:
  extract_private: true
  uml_look: true
log:
  level: debug
  format: json
`)
		cfg, err := LoadConfig(p)
		require.NoError(t, err)
		assert.Equal(t, "src", cfg.Project.Root)
		assert.Equal(t, []string{"include", "lib"}, cfg.Input.Sources)
		assert.Equal(t, []TagFile{{Path: "std.tag", Name: "cppreference"}}, cfg.Input.TagFiles)
		assert.Equal(t, "geo.tag", cfg.Output.TagFile)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

		opts := cfg.Options()
		assert.True(t, opts.ExtractPrivate)
		assert.True(t, opts.UMLLook)
		assert.False(t, opts.ExtractStatic)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("SYMGRAPH_DB", "/tmp/other.db")
		t.Setenv("SYMGRAPH_LOG_LEVEL", "WARN")
		t.Setenv("SYMGRAPH_TAGFILE", "out.tag")
		cfg, err := LoadConfig(writeConfig(t, "project:\n  root: .\n"))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/other.db", cfg.Output.Database)
		assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
		assert.Equal(t, "out.tag", cfg.Output.TagFile)
	})

	t.Run("Invalid values", func(t *testing.T) {
		cases := map[string]string{
			"log level":    "log:\n  level: loud\n",
			"log format":   "log:\n  format: xml\n",
			"tag file":     "input:\n  tag_files:\n    - name: nameless\n",
			"project root": "project:\n  root: \"\"\n",
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := LoadConfig(writeConfig(t, body))
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalid))
			})
		}
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "project: [\n"))
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrInvalid))
	})
}
