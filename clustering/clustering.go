package clustering

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/pprl"
	"github.com/hupe1980/pprl/assignment"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/graph"
	"github.com/hupe1980/pprl/record"
	"github.com/hupe1980/pprl/similarity"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a clustering run.
type Result struct {
	// Clusters holds every cluster with at least the minimum subset size,
	// ordered by block key, then by cluster handle.
	Clusters []cluster.Snapshot `json:"clusters"`
	// Dropped holds the undersized clusters in the same order.
	Dropped []cluster.Snapshot `json:"dropped,omitempty"`
}

// Protocol is a configured clustering run over a fixed set of parties.
type Protocol struct {
	parties []record.Party
	cfg     *pprl.Config
	logger  *pprl.Logger
}

// New validates the configuration and orders parties by descending record
// count. Parties of equal size keep their relative order.
func New(parties []record.Party, opts ...pprl.Option) (*Protocol, error) {
	cfg, err := pprl.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	if err := pprl.ValidateParties(parties); err != nil {
		return nil, err
	}

	ordered := make([]record.Party, len(parties))
	copy(ordered, parties)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordCount() > ordered[j].RecordCount()
	})

	return &Protocol{
		parties: ordered,
		cfg:     cfg,
		logger:  cfg.Logger.WithProtocol("clustering"),
	}, nil
}

// Parties returns the parties in processing order.
func (p *Protocol) Parties() []record.Party {
	return p.parties
}

// block is the work of one blocking key: per party, in processing order, the
// singleton clusters of that party's records in the block.
type block struct {
	key   string
	steps [][]*cluster.Cluster
}

// Run executes the protocol. A failed run returns no partial result.
func (p *Protocol) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	arena, blocks, err := p.plan()
	if err != nil {
		return nil, err
	}

	var live [][]*cluster.Cluster
	if p.cfg.Sequential() {
		live, err = p.runSequential(ctx, arena, blocks)
	} else {
		live, err = p.runConcurrent(ctx, arena, blocks)
	}
	if err != nil {
		p.logger.LogRun(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}

	res := &Result{}
	for _, clusters := range live {
		for _, c := range clusters {
			if c.Len() >= p.cfg.MinimumSubsetSize {
				res.Clusters = append(res.Clusters, c.Snapshot())
			} else {
				res.Dropped = append(res.Dropped, c.Snapshot())
			}
		}
	}

	p.logger.LogRun(ctx, len(res.Clusters), len(res.Dropped), time.Since(start), nil)
	return res, nil
}

// plan allocates every singleton up front, in block then party order, so that
// cluster handles do not depend on how blocks are scheduled.
func (p *Protocol) plan() (*cluster.Arena, []block, error) {
	grouped := make([]map[string][]*record.Record, len(p.parties))
	for i, party := range p.parties {
		grouped[i] = party.RecordsByBlock()
	}

	arena := cluster.NewArena()
	keys := record.Blocks(p.parties)
	blocks := make([]block, len(keys))
	for bi, key := range keys {
		b := block{key: key, steps: make([][]*cluster.Cluster, len(p.parties))}
		for i := range p.parties {
			singletons, err := arena.Singletons(grouped[i][key])
			if err != nil {
				return nil, nil, err
			}
			b.steps[i] = singletons
		}
		blocks[bi] = b
	}
	return arena, blocks, nil
}

func (p *Protocol) runSequential(ctx context.Context, arena *cluster.Arena, blocks []block) ([][]*cluster.Cluster, error) {
	live := make([][]*cluster.Cluster, len(blocks))
	for bi, b := range blocks {
		clusters, err := p.runBlock(ctx, arena, b)
		if err != nil {
			return nil, err
		}
		live[bi] = clusters
	}
	return live, nil
}

func (p *Protocol) runConcurrent(ctx context.Context, arena *cluster.Arena, blocks []block) ([][]*cluster.Cluster, error) {
	live := make([][]*cluster.Cluster, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.BlockConcurrency)
	for bi, b := range blocks {
		g.Go(func() error {
			clusters, err := p.runBlock(gctx, arena, b)
			if err != nil {
				return err
			}
			live[bi] = clusters
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return live, nil
}

// runBlock grows the graph of one block party by party and returns its live
// clusters in handle order.
func (p *Protocol) runBlock(ctx context.Context, arena *cluster.Arena, b block) ([]*cluster.Cluster, error) {
	start := time.Now()
	log := p.logger.WithBlock(b.key)
	g := graph.New(arena)

	for i, singletons := range b.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p.cfg.EnhancedPrivacy {
			if err := p.reencode(i, b.key); err != nil {
				log.LogBlock(ctx, 0, time.Since(start), err)
				return nil, err
			}
		}

		if len(singletons) == 0 {
			continue
		}

		if g.IsEmpty() {
			g.AddClusters(cluster.IDs(singletons))
			continue
		}

		merged, edges, err := p.step(ctx, g, singletons)
		if err != nil {
			err = fmt.Errorf("block %q party %s: %w", b.key, p.parties[i].ID(), err)
			log.LogBlock(ctx, 0, time.Since(start), err)
			return nil, err
		}
		log.WithParty(p.parties[i].ID()).LogParty(ctx, len(singletons), edges, merged)
	}

	clusters := g.Clusters()
	p.cfg.MetricsCollector.RecordBlock(len(b.steps), len(clusters), time.Since(start))
	log.LogBlock(ctx, len(clusters), time.Since(start), nil)
	return clusters, nil
}

// step compares the singletons of one party with the clusters already in the
// block, inserts the singletons and merges along the optimal assignment.
func (p *Protocol) step(ctx context.Context, g *graph.Graph, singletons []*cluster.Cluster) (int, int, error) {
	existing := g.Clusters()
	oracle := p.cfg.Similarity()

	for _, s := range singletons {
		r := s.Members()[0]
		for _, c := range existing {
			sim, err := similarity.CheckSimilarity(oracle.Similarity(c, r))
			if err != nil {
				return 0, 0, fmt.Errorf("record %s vs cluster %d: %w", r, c.ID(), err)
			}
			if sim >= p.cfg.SimilarityThreshold {
				g.AddEdge(c.ID(), s.ID(), sim)
			}
		}
	}
	g.AddClusters(cluster.IDs(singletons))

	edges := g.Edges()
	solveStart := time.Now()
	selected, err := assignment.Solve(edges, assignment.Maximize)
	if err != nil {
		return 0, 0, err
	}
	p.cfg.MetricsCollector.RecordSolve(len(edges), len(selected), time.Since(solveStart))
	p.logger.LogSolve(ctx, assignment.Maximize.String(), len(edges), len(selected), time.Since(solveStart))

	merged, err := g.MergeClusters(selected)
	if err != nil {
		return 0, 0, err
	}
	return merged, len(edges), nil
}

// reencode re-encodes block key for parties 0..i with an encoder keyed on
// exactly those participants.
func (p *Protocol) reencode(i int, key string) error {
	participants := p.parties[:i+1]
	enc := p.cfg.EncodingHandler.ForParticipants(record.PartyIDs(participants))
	for _, party := range participants {
		if err := party.EncodeBlock(enc, key); err != nil {
			return fmt.Errorf("re-encode block %q of party %s: %w", key, party.ID(), err)
		}
	}
	return nil
}
