package ir

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AutoBrief returns the first sentence of the first paragraph of doc,
// which is Markdown. It returns "" when doc has no paragraph.
func AutoBrief(doc string) string {
	src := []byte(doc)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if _, ok := n.(*gmast.Paragraph); ok {
			collectText(n, src, &sb)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return firstSentence(strings.TrimSpace(sb.String()))
}

func collectText(n gmast.Node, src []byte, sb *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
			continue
		}
		collectText(c, src, sb)
	}
}

func firstSentence(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '.' && s[i] != '!' && s[i] != '?' {
			continue
		}
		if i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\n' {
			return s[:i+1]
		}
	}
	return s
}

// ApplyAutoBrief fills empty briefs from the detailed documentation.
func ApplyAutoBrief(entries []Entry) {
	for i := range entries {
		if entries[i].Brief == "" && entries[i].Doc != "" {
			entries[i].Brief = AutoBrief(entries[i].Doc)
		}
	}
}
