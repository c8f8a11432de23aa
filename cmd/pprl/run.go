package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/pprl"
	"github.com/hupe1980/pprl/clustering"
	"github.com/hupe1980/pprl/linking"
	"github.com/spf13/cobra"
)

// summary is printed after a run.
type summary struct {
	Protocol string
	Parties  int
	Clusters int
	Dropped  int
	Output   string
	Duration time.Duration
}

func outputName(cfg *RunConfig, protocol string) string {
	if cfg.Output.Name != "" {
		return cfg.Output.Name
	}
	return protocol + ".snap"
}

func runCluster(ctx context.Context, cfg *RunConfig, logger *pprl.Logger, w io.Writer) error {
	start := time.Now()
	parties, err := loadParties(cfg.Parties)
	if err != nil {
		return err
	}

	mc := &pprl.BasicMetricsCollector{}
	p, err := clustering.New(parties, append(cfg.Protocol.Options(),
		pprl.WithLogger(logger),
		pprl.WithMetricsCollector(mc),
	)...)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	name := outputName(cfg, "clustering")
	if err := writeResult(ctx, cfg.Output, name, res); err != nil {
		return err
	}

	stats := mc.GetStats()
	fmt.Fprintf(w, "Blocks: %d\n", stats.Blocks)
	fmt.Fprintf(w, "Solves: %d (%d edges, %d selected)\n", stats.Solves, stats.SolveEdges, stats.SolveSelected)
	return printSummary(w, summary{
		Protocol: "clustering",
		Parties:  len(parties),
		Clusters: len(res.Clusters),
		Dropped:  len(res.Dropped),
		Output:   name,
		Duration: time.Since(start),
	})
}

func runLink(ctx context.Context, cfg *RunConfig, logger *pprl.Logger, w io.Writer) error {
	start := time.Now()
	parties, err := loadParties(cfg.Parties)
	if err != nil {
		return err
	}

	p, err := linking.New(parties, append(cfg.Protocol.Options(), pprl.WithLogger(logger))...)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	name := outputName(cfg, "linking")
	if err := writeResult(ctx, cfg.Output, name, res); err != nil {
		return err
	}

	fmt.Fprintf(w, "Pivots: %d\n", len(res.Snapshot.Pivots))
	fmt.Fprintf(w, "Distance calls: %d (%d pivots pruned, %d triangle pruned)\n",
		res.Stats.DistanceCalls, res.Stats.PivotsPruned, res.Stats.TrianglePruned)
	return printSummary(w, summary{
		Protocol: "linking",
		Parties:  len(parties),
		Clusters: len(res.Clusters),
		Dropped:  len(res.Dropped),
		Output:   name,
		Duration: time.Since(start),
	})
}

func writeResult(ctx context.Context, out OutputConfig, name string, v any) error {
	store, err := newStore(ctx, out)
	if err != nil {
		return err
	}
	writer, err := newWriter(store, out)
	if err != nil {
		return err
	}
	return writer.Write(ctx, name, v)
}

func printSummary(w io.Writer, s summary) error {
	_, err := fmt.Fprintf(w, "%s: %d parties, %d clusters, %d dropped -> %s (%v)\n",
		s.Protocol, s.Parties, s.Clusters, s.Dropped, s.Output, s.Duration.Round(time.Millisecond))
	return err
}

type runFunc func(ctx context.Context, cfg *RunConfig, logger *pprl.Logger, w io.Writer) error

func runE(run runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := LoadRunConfig(cfgFile)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, logger, cmd.OutOrStdout())
	}
}
