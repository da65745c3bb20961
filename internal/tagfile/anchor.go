package tagfile

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"symgraph/internal/graph"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Anchor returns a stable anchor for a member, derived from its scope,
// kind, name and argument list. Overloads get distinct anchors; whitespace
// differences in the argument list do not.
func Anchor(scope string, m *graph.Member) string {
	fingerprint := strings.Join([]string{
		canonicalize(scope),
		m.Kind.String(),
		m.LocalName,
		canonicalize(argList(m)),
	}, "|")
	sum := sha256.Sum256([]byte(fingerprint))
	return "a" + hex.EncodeToString(sum[:16])
}

func canonicalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// argList prefers the parsed argument types, so a declaration and its
// definition with different parameter names anchor the same way.
func argList(m *graph.Member) string {
	if len(m.Arguments) == 0 {
		return m.Args
	}
	types := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		types[i] = a.Type
	}
	return "(" + strings.Join(types, ",") + ")"
}

// FileName escapes a compound name into an output file name, e.g.
// "ns::Vec" of kind class becomes "classns_1_1_vec" plus ext.
func FileName(kind, name, ext string) string {
	var b strings.Builder
	b.WriteString(kind)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == ':':
			b.WriteString("_1")
		case c == '<':
			b.WriteString("_3")
		case c == '>':
			b.WriteString("_4")
		case c == '/':
			b.WriteString("_2")
		case c == '.':
			b.WriteString("_8")
		case c == '_':
			b.WriteString("__")
		case c == ' ':
			b.WriteString("_01")
		case c >= 'A' && c <= 'Z':
			b.WriteByte('_')
			b.WriteByte(c + 'a' - 'A')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteString("_")
			b.WriteString(hex.EncodeToString([]byte{c}))
		}
	}
	return b.String() + ext
}
