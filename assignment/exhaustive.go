package assignment

import (
	"math/bits"

	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
)

type score struct {
	count int
	sum   float64
}

func (s score) better(than score, mode Mode) bool {
	if mode == Maximize {
		return s.sum > than.sum
	}
	if s.count != than.count {
		return s.count > than.count
	}
	return s.sum < than.sum
}

type choice struct {
	score score
	edge  int // -1: lowest free vertex stays unmatched
}

type neighbor struct {
	vertex int
	edge   int
}

// exhaustive solves a small general (non-bipartite) component exactly by
// memoized search over the set of decided vertices.
func exhaustive(c component, mode Mode) []cluster.Edge {
	k := len(c.vertices)
	local := make(map[core.ClusterID]int, k)
	for i, v := range c.vertices {
		local[v] = i
	}
	adj := make([][]neighbor, k)
	for ei, e := range c.edges {
		a, b := local[e.From], local[e.To]
		adj[a] = append(adj[a], neighbor{vertex: b, edge: ei})
		adj[b] = append(adj[b], neighbor{vertex: a, edge: ei})
	}

	full := uint32(1)<<k - 1
	memo := make(map[uint32]choice)

	var solve func(mask uint32) score
	solve = func(mask uint32) score {
		if mask == full {
			return score{}
		}
		if ch, ok := memo[mask]; ok {
			return ch.score
		}
		v := bits.TrailingZeros32(^mask)

		best := choice{score: solve(mask | 1<<v), edge: -1}
		for _, nb := range adj[v] {
			if mask&(1<<nb.vertex) != 0 {
				continue
			}
			rest := solve(mask | 1<<v | 1<<nb.vertex)
			cand := score{count: rest.count + 1, sum: c.edges[nb.edge].Weight + rest.sum}
			if cand.better(best.score, mode) {
				best = choice{score: cand, edge: nb.edge}
			}
		}
		memo[mask] = best
		return best.score
	}
	solve(0)

	var out []cluster.Edge
	for mask := uint32(0); mask != full; {
		v := bits.TrailingZeros32(^mask)
		ch := memo[mask]
		if ch.edge < 0 {
			mask |= 1 << v
			continue
		}
		e := c.edges[ch.edge]
		out = append(out, e)
		mask |= 1<<local[e.From] | 1<<local[e.To]
	}
	return out
}
