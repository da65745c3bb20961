package crawler

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"symgraph/internal/extractor"
	"symgraph/internal/ir"
	"symgraph/internal/logfields"
)

// Crawler scans a directory for C and C++ sources.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
	exclude   *ignore.GitIgnore
	logger    *slog.Logger
}

// NewCrawler creates a new crawler instance. Exclude patterns use
// .gitignore syntax and apply on top of the root's .gitignore.
func NewCrawler(ext *extractor.Extractor, exclude []string, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Crawler{
		extractor: ext,
		ignored:   []string{".git", "vendor", "third_party", "node_modules", "build"},
		logger:    logger,
	}
	if len(exclude) > 0 {
		c.exclude = ignore.CompileIgnoreLines(exclude...)
	}
	return c
}

// ScanProject walks root and extracts every supported file. Entries are
// streamed per file with locations relative to root, preventing large
// memory buildup.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(path string, entries []ir.Entry)) error {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		gi = nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		// Skip ignored directories
		if d.IsDir() {
			if path == root {
				return nil
			}
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			if c.matches(gi, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !extractor.Supports(d.Name()) || c.matches(gi, rel) {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("Skipping unreadable file", logfields.Path(rel), logfields.Error(err))
			return nil
		}
		entries, err := c.extractor.Extract(ctx, rel, src)
		if err != nil {
			// Log and continue instead of failing the whole scan
			c.logger.Warn("Skipping file that failed to parse", logfields.Path(rel), logfields.Error(err))
			return nil
		}
		c.logger.Debug("Extracted file", logfields.Path(rel), logfields.Count(len(entries)))

		onFile(rel, entries)
		return nil
	})
}

func (c *Crawler) matches(gi *ignore.GitIgnore, rel string) bool {
	if gi != nil && gi.MatchesPath(rel) {
		return true
	}
	return c.exclude != nil && c.exclude.MatchesPath(rel)
}
