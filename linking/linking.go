package linking

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/pprl"
	"github.com/hupe1980/pprl/assignment"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
	"github.com/hupe1980/pprl/graph"
	"github.com/hupe1980/pprl/metricspace"
	"github.com/hupe1980/pprl/record"
	"github.com/hupe1980/pprl/similarity"
)

// Result is the outcome of a linking run.
type Result struct {
	// Snapshot is the final pivot structure of the index.
	Snapshot metricspace.Snapshot `json:"snapshot"`
	// Clusters holds every indexed cluster with at least the minimum subset
	// size, in snapshot order.
	Clusters []cluster.Snapshot `json:"clusters"`
	// Dropped holds the undersized clusters in the same order.
	Dropped []cluster.Snapshot `json:"dropped,omitempty"`
	// Stats accumulates the search work of all queries.
	Stats metricspace.SearchStats `json:"stats"`
}

// Protocol is a configured linking run over a fixed sequence of parties.
type Protocol struct {
	parties []record.Party
	cfg     *pprl.Config
	logger  *pprl.Logger
}

// New validates the configuration. Parties are processed in the given order;
// the first one seeds the index.
func New(parties []record.Party, opts ...pprl.Option) (*Protocol, error) {
	cfg, err := pprl.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	if err := pprl.ValidateParties(parties); err != nil {
		return nil, err
	}

	return &Protocol{
		parties: append([]record.Party(nil), parties...),
		cfg:     cfg,
		logger:  cfg.Logger.WithProtocol("linking"),
	}, nil
}

// run holds the mutable state of one execution.
type run struct {
	*Protocol
	arena *cluster.Arena
	index *metricspace.Index
	stats metricspace.SearchStats
}

// Run executes the protocol. Cancellation is observed between parties; a
// failed or cancelled run returns no result.
func (p *Protocol) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	arena := cluster.NewArena()
	r := &run{
		Protocol: p,
		arena:    arena,
		index:    metricspace.New(arena, p.cfg.Metric, p.cfg.MaximalIntersection),
	}
	r.index.OnIndex(p.cfg.MetricsCollector.RecordIndex)

	if err := r.execute(ctx); err != nil {
		p.logger.LogRun(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}

	res := &Result{Snapshot: r.index.Snapshot(), Stats: r.stats}
	for _, c := range res.Snapshot.Clusters() {
		if len(c.Records) >= p.cfg.MinimumSubsetSize {
			res.Clusters = append(res.Clusters, c)
		} else {
			res.Dropped = append(res.Dropped, c)
		}
	}

	p.logger.LogRun(ctx, len(res.Clusters), len(res.Dropped), time.Since(start), nil)
	return res, nil
}

func (r *run) execute(ctx context.Context) error {
	for i, party := range r.parties {
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.cfg.EnhancedPrivacy {
			if err := r.reencode(i); err != nil {
				return err
			}
		}

		log := r.logger.WithParty(party.ID())
		if i == 0 {
			if err := r.bootstrap(party); err != nil {
				return fmt.Errorf("bootstrap party %s: %w", party.ID(), err)
			}
			log.InfoContext(ctx, "index bootstrapped",
				"records", party.RecordCount(),
				"pivots", len(r.index.Pivots()),
			)
			continue
		}

		edges, merged, err := r.link(ctx, party)
		if err != nil {
			return fmt.Errorf("link party %s: %w", party.ID(), err)
		}
		log.LogParty(ctx, party.RecordCount(), edges, merged)
	}
	return nil
}

func (r *run) bootstrap(party record.Party) error {
	clusters, err := r.arena.Singletons(party.Records())
	if err != nil {
		return err
	}
	return r.index.Bootstrap(clusters, r.cfg.PivotSelector)
}

// link queries the index with every record of party, merges the optimal
// minimum-distance matches and indexes the unmatched queries.
func (r *run) link(ctx context.Context, party record.Party) (int, int, error) {
	queries, err := r.arena.Singletons(party.Records())
	if err != nil {
		return 0, 0, err
	}

	g := graph.New(r.arena)
	for _, q := range queries {
		radius := similarity.QueryRadius(q.Members()[0], r.cfg.SimilarityThreshold)
		candidates, stats, err := r.index.Search(q, radius)
		r.stats.Add(stats)
		r.cfg.MetricsCollector.RecordSearch(stats.Pivots, stats.PivotsPruned+stats.TrianglePruned, stats.DistanceCalls, stats.Candidates)
		if err != nil {
			return 0, 0, fmt.Errorf("search record %s: %w", q.Members()[0], err)
		}
		for _, e := range candidates {
			if !g.Contains(e.From) {
				g.AddCluster(e.From)
			}
			g.AddEdge(e.From, e.To, e.Weight)
		}
	}
	g.AddClusters(cluster.IDs(queries))

	edges := g.Edges()
	solveStart := time.Now()
	selected, err := assignment.Solve(edges, assignment.Minimize)
	if err != nil {
		return 0, 0, err
	}
	r.cfg.MetricsCollector.RecordSolve(len(edges), len(selected), time.Since(solveStart))
	r.logger.LogSolve(ctx, assignment.Minimize.String(), len(edges), len(selected), time.Since(solveStart))

	merged, err := g.MergeClusters(selected)
	if err != nil {
		return 0, 0, err
	}

	for _, e := range selected {
		if err := r.index.Refresh(e.From); err != nil {
			return 0, 0, err
		}
	}

	var unmatched []core.ClusterID
	for _, q := range queries {
		if !q.Retired() {
			unmatched = append(unmatched, q.ID())
		}
	}
	if err := r.index.Assign(unmatched); err != nil {
		return 0, 0, err
	}
	return len(edges), merged, nil
}

// reencode re-encodes every record of parties 0..i with an encoder keyed on
// exactly those participants.
func (r *run) reencode(i int) error {
	participants := r.parties[:i+1]
	enc := r.cfg.EncodingHandler.ForParticipants(record.PartyIDs(participants))
	for _, party := range participants {
		if err := party.Encode(enc); err != nil {
			return fmt.Errorf("re-encode party %s: %w", party.ID(), err)
		}
	}
	return nil
}
