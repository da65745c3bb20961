package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"symgraph/internal/ir"
)

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language. C sources are
// read with the C++ grammar.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch strings.ToLower(lang) {
	case "cpp", "c++", "c":
		langExt = &CppExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// Supports reports whether path has a C or C++ source or header extension.
func Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hh", ".hpp", ".hxx", ".h++", ".c", ".cc", ".cpp", ".cxx", ".c++", ".ipp", ".inl":
		return true
	}
	return false
}

// ExtractFromFile parses a single source file and extracts its entries.
// Entry locations carry path as given.
func (e *Extractor) ExtractFromFile(path string) ([]ir.Entry, error) {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(context.Background(), filepath.ToSlash(path), sourceCode)
}

func (e *Extractor) Extract(ctx context.Context, path string, sourceCode []byte) ([]ir.Entry, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	return e.langExtractor.Extract(tree.RootNode(), sourceCode, path), nil
}
