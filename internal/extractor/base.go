package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"

	"symgraph/internal/ir"
)

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	// Extract turns a parsed file into entries in declaration order.
	Extract(root *sitter.Node, sourceCode []byte, filepath string) []ir.Entry
}
