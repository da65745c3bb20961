package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"symgraph/internal/config"
	"symgraph/internal/crawler"
	"symgraph/internal/extractor"
	"symgraph/internal/index"
	"symgraph/internal/logfields"
	"symgraph/internal/metrics"
	"symgraph/internal/storage"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "symgraph",
	Short: "symgraph builds a cross-referenced symbol graph from C++ sources and tag files",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "symgraph.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite snapshot (overrides output.database)")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(neighborsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Output.Database = dbPath
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func initStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.Output.Database); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return storage.NewSQLiteStore(cfg.Output.Database)
}

// initIndexer wires the extractor, crawler and metrics recorder for cfg.
func initIndexer(cfg *config.Config, logger *slog.Logger) (*index.Indexer, *metrics.PrometheusRecorder, error) {
	ext, err := extractor.NewExtractor("cpp")
	if err != nil {
		return nil, nil, fmt.Errorf("create extractor: %w", err)
	}
	cr := crawler.NewCrawler(ext, cfg.Input.Exclude, logger)
	rec := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	return index.NewIndexer(cr, logger, rec), rec, nil
}

func indexOptions(cfg *config.Config) index.Options {
	opts := index.Options{
		Sources:    cfg.Input.Sources,
		EntryFiles: cfg.Input.EntryFiles,
		AutoBrief:  cfg.Build.AutoBrief,
		Graph:      cfg.Options(),
	}
	for _, tf := range cfg.Input.TagFiles {
		opts.TagFiles = append(opts.TagFiles, index.TagImport{Path: tf.Path, Name: tf.Name})
	}
	return opts
}

func projectRoot(cfg *config.Config, args []string) (string, error) {
	root := cfg.Project.Root
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}
	return abs, nil
}

func fail(logger *slog.Logger, msg string, err error) error {
	logger.Error(msg, logfields.Error(err))
	return err
}
