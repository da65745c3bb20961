package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"symgraph/internal/graph"
)

type fakeResolver struct {
	name string
	fn   func(b *Build) (ResolveStats, error)
}

func (f fakeResolver) Name() string { return f.name }
func (f fakeResolver) Resolve(_ context.Context, b *Build) (ResolveStats, error) {
	return f.fn(b)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolverChain_Run(t *testing.T) {
	b := NewBuild(graph.New(graph.Options{}, discardLogger()), nil)
	b.Unresolved = []Unresolved{
		{Entry: "a", Kind: "base", Target: "x", Reason: ReasonNoCandidate},
		{Entry: "b", Kind: "base", Target: "y", Reason: ReasonNoCandidate},
	}

	r1 := fakeResolver{
		name: "r1",
		fn: func(b *Build) (ResolveStats, error) {
			b.Unresolved = b.Unresolved[1:]
			return ResolveStats{Attempted: 2, Resolved: 1, Skipped: 1}, nil
		},
	}
	r2 := fakeResolver{
		name: "r2",
		fn: func(b *Build) (ResolveStats, error) {
			b.Unresolved = nil
			return ResolveStats{Attempted: 1, Resolved: 1, Skipped: 0}, nil
		},
	}

	results := NewResolverChain(r1, r2).WithLogger(discardLogger()).Run(context.Background(), b)

	if len(results) != 2 {
		t.Fatalf("expected 2 stage results, got %d", len(results))
	}
	if results[0].Resolver != "r1" || results[1].Resolver != "r2" {
		t.Fatalf("unexpected resolver order: %+v", results)
	}
	if results[0].UnresolvedBefore != 2 || results[0].UnresolvedAfter != 1 {
		t.Fatalf("unexpected unresolved transition for r1: %+v", results[0])
	}
	if results[1].UnresolvedBefore != 1 || results[1].UnresolvedAfter != 0 {
		t.Fatalf("unexpected unresolved transition for r2: %+v", results[1])
	}
}

func TestResolverChain_StopsOnError(t *testing.T) {
	b := NewBuild(graph.New(graph.Options{}, discardLogger()), nil)
	boom := errors.New("boom")
	ran := false

	results := NewResolverChain(
		fakeResolver{name: "fails", fn: func(*Build) (ResolveStats, error) { return ResolveStats{}, boom }},
		fakeResolver{name: "never", fn: func(*Build) (ResolveStats, error) { ran = true; return ResolveStats{}, nil }},
	).WithLogger(discardLogger()).Run(context.Background(), b)

	if len(results) != 1 || !errors.Is(results[0].Err, boom) {
		t.Fatalf("expected a single failing stage, got %+v", results)
	}
	if ran {
		t.Fatalf("stage after a failure must not run")
	}
}

func TestResolverChain_Cancelled(t *testing.T) {
	b := NewBuild(graph.New(graph.Options{}, discardLogger()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewDefaultChain().WithLogger(discardLogger()).Run(ctx, b)
	if len(results) != 1 || !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("expected cancellation before the first stage, got %+v", results)
	}
	if b.Graph.Frozen() {
		t.Fatalf("cancelled run must not freeze the graph")
	}
}

func TestResolverChain_NilBuild(t *testing.T) {
	if got := NewDefaultChain().Run(context.Background(), nil); got != nil {
		t.Fatalf("expected nil results, got %+v", got)
	}
}
