package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"symgraph/internal/graph"
)

type TagFile struct {
	Path string `yaml:"path" validate:"required"`
	// Name is recorded as the origin of imported entities. Defaults to the
	// file name.
	Name string `yaml:"name"`
}

type Config struct {
	Project struct {
		Root string `yaml:"root" validate:"required"`
		Name string `yaml:"name"`
	} `yaml:"project"`
	Input struct {
		Sources    []string  `yaml:"sources"`
		Exclude    []string  `yaml:"exclude"`
		EntryFiles []string  `yaml:"entry_files"`
		TagFiles   []TagFile `yaml:"tag_files" validate:"dive"`
	} `yaml:"input"`
	Output struct {
		TagFile         string `yaml:"tag_file"`
		Database        string `yaml:"database"`
		MetricsTextfile string `yaml:"metrics_textfile"`
	} `yaml:"output"`
	Build struct {
		ExtractPrivate      bool `yaml:"extract_private"`
		ExtractPackage      bool `yaml:"extract_package"`
		ExtractStatic       bool `yaml:"extract_static"`
		ExtractAll          bool `yaml:"extract_all"`
		ExtractLocalMethods bool `yaml:"extract_local_methods"`
		HideUndocMembers    bool `yaml:"hide_undoc_members"`
		HideFriendCompounds bool `yaml:"hide_friend_compounds"`
		UMLLook             bool `yaml:"uml_look"`
		SeparateMemberPages bool `yaml:"separate_member_pages"`
		AutoBrief           bool `yaml:"auto_brief"`
	} `yaml:"build"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=text json"`
	} `yaml:"log"`
}

// Default returns a configuration that resolves the current directory.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Input.Sources = []string{"."}
	cfg.Output.Database = ".symgraph/graph.db"
	cfg.Build.AutoBrief = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return &cfg
}

var validate = validator.New()

// LoadConfig reads the YAML file at path on top of Default. A missing file
// yields the defaults; environment overrides apply either way.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	cfg := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	// 3. Override with Environment Variables if present
	if db := os.Getenv("SYMGRAPH_DB"); db != "" {
		cfg.Output.Database = db
	}
	if level := os.Getenv("SYMGRAPH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if tag := os.Getenv("SYMGRAPH_TAGFILE"); tag != "" {
		cfg.Output.TagFile = tag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Options returns the graph options selected by the build section.
func (c *Config) Options() graph.Options {
	return graph.Options{
		ExtractPrivate:      c.Build.ExtractPrivate,
		ExtractPackage:      c.Build.ExtractPackage,
		ExtractStatic:       c.Build.ExtractStatic,
		ExtractAll:          c.Build.ExtractAll,
		ExtractLocalMethods: c.Build.ExtractLocalMethods,
		HideUndocMembers:    c.Build.HideUndocMembers,
		HideFriendCompounds: c.Build.HideFriendCompounds,
		UMLLook:             c.Build.UMLLook,
		SeparateMemberPages: c.Build.SeparateMemberPages,
	}
}

func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
