package retrieval

import (
	"sort"
	"strings"

	"symgraph/internal/graph"
)

type EdgeKind string

const (
	EdgeInherits   EdgeKind = "inherits"
	EdgeUses       EdgeKind = "uses"
	EdgeInstanceOf EdgeKind = "instance_of"
)

// Edge is a directed class relation: derived to base, user to used, or
// template instance to master.
type Edge struct {
	From  graph.ClassID
	To    graph.ClassID
	Kind  EdgeKind
	Label string
}

// Config controls how neighbourhoods are extracted.
type Config struct {
	MaxHops      int
	AllowedKinds map[EdgeKind]bool
	// SkipExternal stops traversal at classes imported from tag files.
	SkipExternal bool
}

func DefaultConfig() Config {
	return Config{
		MaxHops:      2,
		AllowedKinds: nil,
	}
}

// Subgraph is the neighbourhood handed to diagram renderers.
type Subgraph struct {
	MaxHops int
	SeedIDs []graph.ClassID
	NodeIDs []graph.ClassID
	Depth   map[graph.ClassID]int
	Edges   []Edge
}

// SeedsByName looks up classes by qualified name and returns the names it
// could not find.
func SeedsByName(g *graph.Graph, names ...string) ([]graph.ClassID, []string) {
	var (
		ids     []graph.ClassID
		missing []string
	)
	for _, n := range names {
		c, ok := g.FindClass(strings.TrimSpace(n))
		if !ok {
			missing = append(missing, n)
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids, missing
}

// Neighbors walks inheritance, usage and instance edges in both directions
// from seeds, up to MaxHops. Private inheritance is followed only when the
// graph extracts private members.
func Neighbors(g *graph.Graph, seeds []graph.ClassID, cfg Config) *Subgraph {
	if g == nil {
		return &Subgraph{}
	}
	if cfg.MaxHops < 0 {
		cfg.MaxHops = 0
	}

	adj := buildAdjacency(g, cfg)

	visitedDepth := make(map[graph.ClassID]int, len(seeds))
	queue := make([]queueItem, 0, len(seeds))
	var seedIDs []graph.ClassID
	for _, id := range seeds {
		if g.Class(id) == nil {
			continue
		}
		if _, dup := visitedDepth[id]; dup {
			continue
		}
		visitedDepth[id] = 0
		seedIDs = append(seedIDs, id)
		queue = append(queue, queueItem{id: id, depth: 0})
	}
	sortIDs(seedIDs)

	edgeSeen := make(map[Edge]bool)
	edges := make([]Edge, 0)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= cfg.MaxHops {
			continue
		}
		if c := g.Class(cur.id); cfg.SkipExternal && cur.depth > 0 && c.IsExternal() {
			continue
		}

		for _, next := range adj[cur.id] {
			if !edgeSeen[next.edge] {
				edgeSeen[next.edge] = true
				edges = append(edges, next.edge)
			}

			nextDepth := cur.depth + 1
			prevDepth, seen := visitedDepth[next.to]
			if !seen || nextDepth < prevDepth {
				visitedDepth[next.to] = nextDepth
				queue = append(queue, queueItem{id: next.to, depth: nextDepth})
			}
		}
	}

	nodeIDs := make([]graph.ClassID, 0, len(visitedDepth))
	for id := range visitedDepth {
		nodeIDs = append(nodeIDs, id)
	}
	sortIDs(nodeIDs)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From == edges[j].From {
			if edges[i].To == edges[j].To {
				return edges[i].Kind < edges[j].Kind
			}
			return edges[i].To < edges[j].To
		}
		return edges[i].From < edges[j].From
	})

	return &Subgraph{
		MaxHops: cfg.MaxHops,
		SeedIDs: seedIDs,
		NodeIDs: nodeIDs,
		Depth:   visitedDepth,
		Edges:   edges,
	}
}

type queueItem struct {
	id    graph.ClassID
	depth int
}

type edgeHop struct {
	to   graph.ClassID
	edge Edge
}

func buildAdjacency(g *graph.Graph, cfg Config) map[graph.ClassID][]edgeHop {
	adj := make(map[graph.ClassID][]edgeHop)
	link := func(e Edge) {
		if !edgeAllowed(e, cfg) {
			return
		}
		adj[e.From] = append(adj[e.From], edgeHop{to: e.To, edge: e})
		adj[e.To] = append(adj[e.To], edgeHop{to: e.From, edge: e})
	}
	for _, c := range g.Classes() {
		for _, b := range c.VisibleBaseClasses() {
			link(Edge{From: c.ID, To: b.Class, Kind: EdgeInherits, Label: b.Prot.String()})
		}
		for _, u := range c.UsedClasses() {
			link(Edge{From: c.ID, To: u.Class, Kind: EdgeUses, Label: strings.Join(u.Accessors, "\n")})
		}
		if c.TemplateMaster != graph.NoClass {
			link(Edge{From: c.ID, To: c.TemplateMaster, Kind: EdgeInstanceOf})
		}
	}
	return adj
}

func edgeAllowed(e Edge, cfg Config) bool {
	if len(cfg.AllowedKinds) == 0 {
		return true
	}
	return cfg.AllowedKinds[e.Kind]
}

func sortIDs(ids []graph.ClassID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
