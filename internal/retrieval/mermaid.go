package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"symgraph/internal/graph"
)

var mermaidUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// mermaidID turns a qualified class name into a Mermaid identifier.
func mermaidID(name string) string {
	return mermaidUnsafe.ReplaceAllString(strings.ReplaceAll(name, "::", "_"), "_")
}

// Mermaid renders the subgraph as a Mermaid class diagram. Inheritance uses
// the UML generalization arrow, usage a dependency labelled with the first
// accessor, and template instances a realization to their master.
func Mermaid(g *graph.Graph, sub *Subgraph) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("classDiagram\n")

	for _, id := range sub.NodeIDs {
		c := g.Class(id)
		if c == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("    class %s[\"%s\"]\n", mermaidID(c.Name), c.Name))
		switch {
		case c.TemplateMaster != graph.NoClass:
			sb.WriteString(fmt.Sprintf("    <<instance>> %s\n", mermaidID(c.Name)))
		case c.IsExternal():
			sb.WriteString(fmt.Sprintf("    <<external>> %s\n", mermaidID(c.Name)))
		case c.Type == graph.CompoundInterface:
			sb.WriteString(fmt.Sprintf("    <<interface>> %s\n", mermaidID(c.Name)))
		}
	}

	for _, e := range sub.Edges {
		from, to := g.Class(e.From), g.Class(e.To)
		if from == nil || to == nil {
			continue
		}
		switch e.Kind {
		case EdgeInherits:
			sb.WriteString(fmt.Sprintf("    %s <|-- %s\n", mermaidID(to.Name), mermaidID(from.Name)))
		case EdgeUses:
			label := e.Label
			if i := strings.IndexByte(label, '\n'); i >= 0 {
				label = label[:i]
			}
			sb.WriteString(fmt.Sprintf("    %s ..> %s : %s\n", mermaidID(from.Name), mermaidID(to.Name), label))
		case EdgeInstanceOf:
			sb.WriteString(fmt.Sprintf("    %s ..|> %s\n", mermaidID(from.Name), mermaidID(to.Name)))
		}
	}

	sb.WriteString("```\n")
	return sb.String()
}
