package resolver

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"symgraph/internal/logfields"
	"symgraph/internal/metrics"
)

var tracer = otel.Tracer("symgraph.resolver")

type ResolveStats struct {
	Attempted int
	Resolved  int
	Skipped   int
}

type GraphResolver interface {
	Name() string
	Resolve(ctx context.Context, b *Build) (ResolveStats, error)
}

type StageResult struct {
	Resolver         string
	Stats            ResolveStats
	UnresolvedBefore int
	UnresolvedAfter  int
	EdgeCount        int
	Duration         time.Duration
	Err              error
}

type ResolverChain struct {
	resolvers []GraphResolver
	logger    *slog.Logger
	recorder  metrics.Recorder
}

func NewResolverChain(resolvers ...GraphResolver) *ResolverChain {
	return &ResolverChain{
		resolvers: resolvers,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
	}
}

// NewDefaultChain runs the stages in dependency order: scopes and compounds
// must exist before members are attached, inheritance needs members for
// template instances, and grouping sees the final member set.
func NewDefaultChain() *ResolverChain {
	return NewResolverChain(
		NewScopeResolver(),
		NewCompoundResolver(),
		NewMemberResolver(),
		NewInheritanceResolver(),
		NewCategoryResolver(),
		NewUsageResolver(),
		NewGroupingResolver(),
		NewFinalizeResolver(),
	)
}

func (c *ResolverChain) WithLogger(l *slog.Logger) *ResolverChain {
	if l != nil {
		c.logger = l
	}
	return c
}

func (c *ResolverChain) WithRecorder(r metrics.Recorder) *ResolverChain {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Run executes every stage in order and stops at the first error. A
// cancelled context stops the chain between stages.
func (c *ResolverChain) Run(ctx context.Context, b *Build) []StageResult {
	if b == nil || b.Graph == nil {
		return nil
	}
	ctx, span := tracer.Start(ctx, "ResolverChain.Run",
		trace.WithAttributes(attribute.Int("entries", len(b.Entries))))
	defer span.End()
	start := time.Now()

	var out []StageResult
	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			out = append(out, StageResult{Resolver: r.Name(), Err: err})
			c.recorder.IncStageResult(r.Name(), metrics.ResultCanceled)
			span.SetStatus(codes.Error, "context cancelled")
			break
		}
		res := c.runStage(ctx, r, b)
		out = append(out, res)
		if res.Err != nil {
			span.SetStatus(codes.Error, res.Err.Error())
			break
		}
	}

	c.recorder.ObserveResolveDuration(time.Since(start))
	for kind, n := range b.Graph.Diagnostics().Counts() {
		c.recorder.AddDiagnostics(string(kind), n)
	}
	st := b.Graph.Stats()
	c.recorder.SetGraphSize("compounds", st.Compounds)
	c.recorder.SetGraphSize("members", st.Members)
	c.recorder.SetGraphSize("groups", st.Groups)
	c.recorder.SetGraphSize("edges", st.Edges)
	c.recorder.SetGraphSize("instances", st.Instances)
	span.SetAttributes(
		attribute.Int("compounds", st.Compounds),
		attribute.Int("members", st.Members),
		attribute.Int("unresolved", len(b.Unresolved)),
	)
	return out
}

func (c *ResolverChain) runStage(ctx context.Context, r GraphResolver, b *Build) StageResult {
	ctx, span := tracer.Start(ctx, "resolver."+r.Name())
	defer span.End()

	before := len(b.Unresolved)
	start := time.Now()
	stats, err := r.Resolve(ctx, b)
	dur := time.Since(start)
	after := len(b.Unresolved)

	span.SetAttributes(
		attribute.Int("attempted", stats.Attempted),
		attribute.Int("resolved", stats.Resolved),
		attribute.Int("skipped", stats.Skipped),
	)
	c.recorder.ObserveStageDuration(r.Name(), dur)
	c.recorder.AddStageItems(r.Name(), stats.Resolved, after-before)

	attrs := []any{
		logfields.Stage(r.Name()),
		logfields.Count(stats.Resolved),
		slog.Int("unresolved", after-before),
		logfields.DurationMS(float64(dur.Microseconds()) / 1000),
	}
	switch {
	case err != nil:
		span.SetStatus(codes.Error, err.Error())
		c.recorder.IncStageResult(r.Name(), metrics.ResultFatal)
		c.logger.Error("Resolver stage failed", append(attrs, logfields.Error(err))...)
	case after > before:
		c.recorder.IncStageResult(r.Name(), metrics.ResultWarning)
		c.logger.Info("Resolver stage finished with unresolved references", attrs...)
	default:
		c.recorder.IncStageResult(r.Name(), metrics.ResultSuccess)
		c.logger.Debug("Resolver stage finished", attrs...)
	}

	return StageResult{
		Resolver:         r.Name(),
		Stats:            stats,
		UnresolvedBefore: before,
		UnresolvedAfter:  after,
		EdgeCount:        b.Graph.EdgeCount(),
		Duration:         dur,
		Err:              err,
	}
}
