package extractor

import (
	"regexp"
	"strings"

	"symgraph/internal/ir"
)

// docComment is the documentation carried by one comment block.
type docComment struct {
	brief  string
	doc    string
	groups []ir.GroupRef
	// defs are the groups the comment defines or extends.
	defs []ir.Entry
	// defines is set by @defgroup: the comment documents the group, not
	// the next declaration.
	defines  bool
	trailing bool
	endRow   uint32
}

var commandRe = regexp.MustCompile(`^[@\\]([A-Za-z]+)\b\s*(.*)$`)

func isDocComment(text string) bool {
	switch {
	case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/"):
		return true
	case strings.HasPrefix(text, "/*!"), strings.HasPrefix(text, "///"), strings.HasPrefix(text, "//!"):
		return true
	}
	return false
}

func isLineComment(text string) bool { return strings.HasPrefix(text, "//") }

func isTrailingDoc(text string) bool {
	for _, p := range []string{"/**<", "/*!<", "///<", "//!<"} {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// parseDocComment reads a doc comment. Grouping commands are collected;
// @{ and @} markers are dropped.
func parseDocComment(text string) docComment {
	var dc docComment
	dc.trailing = isTrailingDoc(text)

	var para []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, "*/")
		for _, p := range []string{"/**<", "/*!<", "///<", "//!<", "/**", "/*!", "///", "//!"} {
			if strings.HasPrefix(line, p) {
				line = line[len(p):]
				break
			}
		}
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*"))
		if line == "" {
			para = append(para, "")
			continue
		}
		m := commandRe.FindStringSubmatch(line)
		if m == nil {
			para = append(para, line)
			continue
		}
		cmd, rest := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		switch cmd {
		case "brief", "short":
			dc.brief = rest
		case "ingroup":
			for _, name := range strings.Fields(rest) {
				dc.groups = append(dc.groups, ir.GroupRef{Name: name, Command: "ingroup"})
			}
		case "defgroup", "addtogroup", "weakgroup":
			name, title, _ := strings.Cut(rest, " ")
			if name == "" {
				continue
			}
			dc.defs = append(dc.defs, ir.Entry{Kind: "group", Name: name, Title: strings.TrimSpace(title)})
			if cmd == "defgroup" {
				dc.defines = true
			} else {
				dc.groups = append(dc.groups, ir.GroupRef{Name: name, Command: cmd})
			}
		default:
			para = append(para, line)
		}
	}
	dc.doc = strings.TrimSpace(strings.Join(compactBlank(para), "\n"))
	return dc
}

// compactBlank drops {, } markers and folds runs of blank lines.
func compactBlank(lines []string) []string {
	var out []string
	blank := false
	for _, l := range lines {
		if l == "@{" || l == "@}" || l == `\{` || l == `\}` {
			continue
		}
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return out
}
