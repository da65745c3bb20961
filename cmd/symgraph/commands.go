package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"symgraph/internal/graph"
	"symgraph/internal/logfields"
	"symgraph/internal/retrieval"
	"symgraph/internal/storage"
	"symgraph/internal/tagfile"
)

var resolveCmd = &cobra.Command{
	Use:          "resolve [root]",
	Short:        "Resolve the symbol graph and save a snapshot",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		root, err := projectRoot(cfg, args)
		if err != nil {
			return err
		}

		// 1. Build
		idx, rec, err := initIndexer(cfg, logger)
		if err != nil {
			return err
		}
		start := time.Now()
		res, err := idx.BuildGraph(ctx, root, indexOptions(cfg))
		if err != nil {
			return fail(logger, "Resolve failed", err)
		}
		g := res.Graph

		// 2. Tag file
		if cfg.Output.TagFile != "" {
			if err := tagfile.NewWriter(logger).WriteFile(cfg.Output.TagFile, g); err != nil {
				return fail(logger, "Failed to write tag file", err)
			}
		}

		// 3. Snapshot
		store, err := initStore(cfg)
		if err != nil {
			return fail(logger, "Failed to initialize database", err)
		}
		defer store.Close()
		runID, err := store.SaveGraph(ctx, g)
		if err != nil {
			return fail(logger, "Failed to save graph", err)
		}

		// 4. Metrics
		if cfg.Output.MetricsTextfile != "" {
			if err := rec.WriteTextfile(cfg.Output.MetricsTextfile); err != nil {
				logger.Warn("Metrics textfile not written", logfields.Error(err))
			}
		}

		out := cmd.OutOrStdout()
		st := g.Stats()
		fmt.Fprintf(out, "Resolved %d entries in %v\n", res.Entries, time.Since(start).Round(time.Millisecond))
		for _, sr := range res.Stages {
			fmt.Fprintf(out, "  %-12s resolved %d/%d  unresolved %d\n",
				sr.Resolver, sr.Stats.Resolved, sr.Stats.Attempted, sr.UnresolvedAfter)
		}
		fmt.Fprintf(out, "Compounds %d  Members %d  Groups %d  Edges %d  Instances %d\n",
			st.Compounds, st.Members, st.Groups, st.Edges, st.Instances)
		counts := make(map[string]int)
		for k, n := range g.Diagnostics().Counts() {
			counts[string(k)] = n
		}
		printDiagnostics(out, counts)
		fmt.Fprintf(out, "Snapshot %s saved to %s\n", runID, cfg.Output.Database)
		return nil
	},
}

var inspectGroup bool

var inspectCmd = &cobra.Command{
	Use:          "inspect [name]",
	Short:        "Show the saved snapshot, a compound or a group",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := initStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			sum, err := store.LoadSummary(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Snapshot %s (%s)\n", sum.RunID, sum.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Compounds %d  Members %d  Groups %d  Edges %d\n",
				sum.Compounds, sum.Members, sum.Groups, sum.Edges)
			printDiagnostics(out, sum.Diagnostics)
			return nil
		}

		name := args[0]
		if !inspectGroup {
			c, err := store.FindCompound(ctx, name)
			if err == nil {
				printCompound(out, c)
				return nil
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return err
			}
		}
		gr, err := store.FindGroup(ctx, name)
		if err != nil {
			return err
		}
		printGroup(out, gr)
		return nil
	},
}

var (
	neighborHops     int
	neighborKinds    []string
	neighborExternal bool
	neighborFormat   string
)

var neighborsCmd = &cobra.Command{
	Use:          "neighbors <class>...",
	Short:        "Resolve the graph and list the class neighbourhood of the given classes",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		root, err := projectRoot(cfg, nil)
		if err != nil {
			return err
		}
		idx, _, err := initIndexer(cfg, logger)
		if err != nil {
			return err
		}
		res, err := idx.BuildGraph(ctx, root, indexOptions(cfg))
		if err != nil {
			return fail(logger, "Resolve failed", err)
		}
		g := res.Graph

		seeds, missing := retrieval.SeedsByName(g, args...)
		for _, m := range missing {
			logger.Warn("Class not found", logfields.Compound(m))
		}
		if len(seeds) == 0 {
			return fmt.Errorf("no classes found among %s", strings.Join(args, ", "))
		}

		rc := retrieval.DefaultConfig()
		rc.MaxHops = neighborHops
		rc.SkipExternal = !neighborExternal
		if len(neighborKinds) > 0 {
			rc.AllowedKinds = make(map[retrieval.EdgeKind]bool)
			for _, k := range neighborKinds {
				rc.AllowedKinds[retrieval.EdgeKind(k)] = true
			}
		}

		sub := retrieval.Neighbors(g, seeds, rc)
		out := cmd.OutOrStdout()
		if neighborFormat == "mermaid" {
			fmt.Fprint(out, retrieval.Mermaid(g, sub))
			return nil
		}
		for _, id := range sub.NodeIDs {
			fmt.Fprintf(out, "%d  %s\n", sub.Depth[id], g.Class(id).Name)
		}
		for _, e := range sub.Edges {
			label := ""
			if e.Label != "" {
				label = " [" + strings.ReplaceAll(e.Label, "\n", ",") + "]"
			}
			fmt.Fprintf(out, "%s -%s-> %s%s\n", g.Class(e.From).Name, e.Kind, g.Class(e.To).Name, label)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectGroup, "group", false, "Look the name up as a group only")
	neighborsCmd.Flags().IntVar(&neighborHops, "hops", 2, "Maximum number of edges from a seed class")
	neighborsCmd.Flags().StringSliceVar(&neighborKinds, "kinds", nil, "Edge kinds to follow (inherits, uses, instance_of)")
	neighborsCmd.Flags().StringVar(&neighborFormat, "format", "text", "Output format (text, mermaid)")
	neighborsCmd.Flags().BoolVar(&neighborExternal, "external", false, "Traverse through classes imported from tag files")
}

func printDiagnostics(out io.Writer, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Fprint(out, "Diagnostics:")
	for _, k := range kinds {
		fmt.Fprintf(out, " %s=%d", k, counts[k])
	}
	fmt.Fprintln(out)
}

func printCompound(out io.Writer, c *storage.CompoundRecord) {
	fmt.Fprintf(out, "%s %s", c.Kind, c.Name)
	if c.File != "" {
		fmt.Fprintf(out, "  (%s:%d)", c.File, c.Line)
	}
	fmt.Fprintln(out)
	if c.External {
		fmt.Fprintln(out, "  external")
	}
	if c.Instance {
		fmt.Fprintf(out, "  instance of %s\n", c.TemplateMaster)
	}
	if c.Group != "" {
		fmt.Fprintf(out, "  group %s\n", c.Group)
	}
	for _, b := range c.Bases {
		fmt.Fprintf(out, "  base %s %s %s\n", b.Protection, b.Virtualness, b.Name)
	}
	for _, s := range c.Subs {
		fmt.Fprintf(out, "  derived %s\n", s.Name)
	}
	for _, u := range c.Uses {
		fmt.Fprintf(out, "  uses %s via %s\n", u.Name, strings.Join(u.Accessors, ", "))
	}
	for _, u := range c.UsedBy {
		fmt.Fprintf(out, "  used by %s\n", u.Name)
	}
	for _, m := range c.Members {
		fmt.Fprintf(out, "  %s %s %s%s\n", m.Protection, m.Kind, m.Name, m.Args)
	}
}

func printGroup(out io.Writer, gr *storage.GroupRecord) {
	fmt.Fprintf(out, "group %s", gr.Name)
	if gr.Title != "" {
		fmt.Fprintf(out, "  %q", gr.Title)
	}
	fmt.Fprintln(out)
	for _, p := range gr.Parents {
		fmt.Fprintf(out, "  in %s\n", p)
	}
	for _, s := range gr.SubGroups {
		fmt.Fprintf(out, "  subgroup %s\n", s)
	}
	for _, c := range gr.Compounds {
		fmt.Fprintf(out, "  compound %s\n", c)
	}
	for _, m := range gr.Members {
		name := m.Name
		if m.Scope != "" {
			name = m.Scope + "::" + m.Name
		}
		fmt.Fprintf(out, "  %s %s (%s)\n", m.Kind, name, graph.Priority(m.Priority))
	}
}
