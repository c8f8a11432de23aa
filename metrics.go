package pprl

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordBlock is called after a block has been clustered.
	RecordBlock(parties, clusters int, duration time.Duration)

	// RecordSolve is called after each optimal-assignment solve.
	RecordSolve(edges, selected int, duration time.Duration)

	// RecordSearch is called after each pivot index search.
	RecordSearch(pivots, pruned, distanceCalls, candidates int)

	// RecordIndex is called whenever a cluster is indexed.
	RecordIndex(promoted bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBlock(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordSolve(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordSearch(int, int, int, int)     {}
func (NoopMetricsCollector) RecordIndex(bool)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe for concurrent use.
type BasicMetricsCollector struct {
	BlockCount       atomic.Int64
	BlockTotalNanos  atomic.Int64
	SolveCount       atomic.Int64
	SolveEdges       atomic.Int64
	SolveSelected    atomic.Int64
	SolveTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	PivotsVisited    atomic.Int64
	PivotsPruned     atomic.Int64
	DistanceCalls    atomic.Int64
	SearchCandidates atomic.Int64
	Indexed          atomic.Int64
	Promoted         atomic.Int64
}

// RecordBlock implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlock(_, _ int, duration time.Duration) {
	b.BlockCount.Add(1)
	b.BlockTotalNanos.Add(duration.Nanoseconds())
}

// RecordSolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSolve(edges, selected int, duration time.Duration) {
	b.SolveCount.Add(1)
	b.SolveEdges.Add(int64(edges))
	b.SolveSelected.Add(int64(selected))
	b.SolveTotalNanos.Add(duration.Nanoseconds())
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(pivots, pruned, distanceCalls, candidates int) {
	b.SearchCount.Add(1)
	b.PivotsVisited.Add(int64(pivots))
	b.PivotsPruned.Add(int64(pruned))
	b.DistanceCalls.Add(int64(distanceCalls))
	b.SearchCandidates.Add(int64(candidates))
}

// RecordIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndex(promoted bool) {
	b.Indexed.Add(1)
	if promoted {
		b.Promoted.Add(1)
	}
}

// Stats is a point-in-time copy of BasicMetricsCollector.
type Stats struct {
	Blocks           int64
	Solves           int64
	SolveEdges       int64
	SolveSelected    int64
	Searches         int64
	PivotsVisited    int64
	PivotsPruned     int64
	DistanceCalls    int64
	SearchCandidates int64
	Indexed          int64
	Promoted         int64
	AvgSolveNanos    int64
}

// GetStats returns the current counters.
func (b *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		Blocks:           b.BlockCount.Load(),
		Solves:           b.SolveCount.Load(),
		SolveEdges:       b.SolveEdges.Load(),
		SolveSelected:    b.SolveSelected.Load(),
		Searches:         b.SearchCount.Load(),
		PivotsVisited:    b.PivotsVisited.Load(),
		PivotsPruned:     b.PivotsPruned.Load(),
		DistanceCalls:    b.DistanceCalls.Load(),
		SearchCandidates: b.SearchCandidates.Load(),
		Indexed:          b.Indexed.Load(),
		Promoted:         b.Promoted.Load(),
	}
	if s.Solves > 0 {
		s.AvgSolveNanos = b.SolveTotalNanos.Load() / s.Solves
	}
	return s
}
