package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"symgraph/internal/crawler"
	"symgraph/internal/graph"
	"symgraph/internal/ir"
	"symgraph/internal/logfields"
	"symgraph/internal/metrics"
	"symgraph/internal/resolver"
	"symgraph/internal/tagfile"
)

// TagImport names an external tag file to read.
type TagImport struct {
	Path string
	Name string
}

// Options selects the inputs of one run. Relative paths are taken from
// the project root.
type Options struct {
	Sources    []string
	EntryFiles []string
	TagFiles   []TagImport
	AutoBrief  bool
	Graph      graph.Options
}

// Result is a resolved graph with the stage reports that built it.
type Result struct {
	Graph   *graph.Graph
	Build   *resolver.Build
	Stages  []resolver.StageResult
	Entries int
}

// Indexer orchestrates entry collection and graph resolution.
type Indexer struct {
	crawler  *crawler.Crawler
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewIndexer creates a new indexer. A nil crawler restricts input to entry
// and tag files.
func NewIndexer(c *crawler.Crawler, logger *slog.Logger, rec metrics.Recorder) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Indexer{crawler: c, logger: logger, recorder: rec}
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Collect gathers entries in processing order: tag file imports first,
// then crawled sources, then entry files.
func (i *Indexer) Collect(ctx context.Context, root string, opts Options) ([]ir.Entry, error) {
	var entries []ir.Entry

	for _, tf := range opts.TagFiles {
		name := tf.Name
		if name == "" {
			name = filepath.Base(tf.Path)
		}
		imported, err := tagfile.NewReader(name, i.logger).ReadFile(resolvePath(root, tf.Path))
		if err != nil {
			return nil, fmt.Errorf("import tag file: %w", err)
		}
		entries = append(entries, imported...)
	}

	if i.crawler != nil {
		for _, src := range opts.Sources {
			dir := resolvePath(root, src)
			err := i.crawler.ScanProject(ctx, dir, func(path string, found []ir.Entry) {
				prefix := filepath.ToSlash(filepath.Join(src))
				for k := range found {
					if prefix != "." && found[k].Location.File != "" {
						found[k].Location.File = prefix + "/" + found[k].Location.File
					}
					if found[k].Kind == "file" {
						found[k].Name = found[k].Location.File
					}
				}
				entries = append(entries, found...)
			})
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", src, err)
			}
		}
	}

	for _, p := range opts.EntryFiles {
		s, err := ir.LoadFile(resolvePath(root, p))
		if err != nil {
			return nil, err
		}
		entries = append(entries, s.Entries...)
	}

	if opts.AutoBrief {
		ir.ApplyAutoBrief(entries)
	}
	return entries, nil
}

// BuildGraph collects the inputs under root and runs the resolver chain.
// The returned graph is frozen when every stage succeeded.
func (i *Indexer) BuildGraph(ctx context.Context, root string, opts Options) (*Result, error) {
	start := time.Now()
	entries, err := i.Collect(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	g := graph.New(opts.Graph, i.logger)
	b := resolver.NewBuild(g, entries)
	stages := resolver.NewDefaultChain().
		WithLogger(i.logger).
		WithRecorder(i.recorder).
		Run(ctx, b)

	res := &Result{Graph: g, Build: b, Stages: stages, Entries: len(entries)}
	for _, st := range stages {
		if st.Err != nil {
			return res, fmt.Errorf("stage %s: %w", st.Resolver, st.Err)
		}
	}
	if len(stages) == 0 {
		return res, errors.New("resolver chain did not run")
	}

	st := g.Stats()
	i.logger.Info("Graph resolved",
		logfields.Count(len(entries)),
		slog.Int("compounds", st.Compounds),
		slog.Int("members", st.Members),
		slog.Int("groups", st.Groups),
		slog.Int("unresolved", len(b.Unresolved)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())),
	)
	return res, nil
}
