package storage

import (
	"context"
	"time"

	"symgraph/internal/graph"
)

// Store persists snapshots of resolved graphs.
type Store interface {
	SnapshotStore
	Close() error
}

// SnapshotStore defines operations over the latest saved snapshot.
type SnapshotStore interface {
	// SaveGraph replaces the stored snapshot with g and returns the run id.
	SaveGraph(ctx context.Context, g *graph.Graph) (string, error)

	// LoadSummary returns the totals of the stored snapshot.
	LoadSummary(ctx context.Context) (*Summary, error)

	// FindCompound retrieves a compound with its edges and members.
	FindCompound(ctx context.Context, name string) (*CompoundRecord, error)

	// FindGroup retrieves a group with its contents.
	FindGroup(ctx context.Context, name string) (*GroupRecord, error)
}

type Summary struct {
	RunID       string
	CreatedAt   time.Time
	Compounds   int
	Members     int
	Groups      int
	Edges       int
	Diagnostics map[string]int
}

type EdgeRecord struct {
	Name        string
	UsedName    string
	Protection  string
	Virtualness string
	TemplSpec   string
}

type UsageRecord struct {
	Name      string
	Accessors []string
	TemplSpec string
}

type MemberRecord struct {
	Name       string
	Kind       string
	Protection string
	Type       string
	Args       string
	Static     bool
	Group      string
	// AliasOf names the grouped member this one duplicates.
	AliasOf string
}

type CompoundRecord struct {
	Name     string
	Kind     string
	File     string
	Line     int
	External bool
	// Instance marks template instances; TemplateMaster names their master.
	Instance       bool
	TemplateMaster string
	Group          string

	Bases   []EdgeRecord
	Subs    []EdgeRecord
	Uses    []UsageRecord
	UsedBy  []UsageRecord
	Members []MemberRecord
}

type GroupedMemberRecord struct {
	MemberRecord
	Scope    string
	Priority int
	HasDocs  bool
}

type GroupRecord struct {
	Name      string
	Title     string
	Parents   []string
	SubGroups []string
	Compounds []string
	Members   []GroupedMemberRecord
}
