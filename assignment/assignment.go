package assignment

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
)

// Mode selects the optimization objective.
type Mode int

const (
	// Maximize maximizes the total weight.
	Maximize Mode = iota
	// Minimize minimizes the total weight among maximum-cardinality matchings.
	Minimize
)

func (m Mode) String() string {
	switch m {
	case Maximize:
		return "maximize"
	case Minimize:
		return "minimize"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// MaxGeneralComponent is the largest non-bipartite component solved exactly.
const MaxGeneralComponent = 24

var (
	// ErrInvalidWeight is returned for NaN or infinite edge weights.
	ErrInvalidWeight = errors.New("edge weight must be finite")

	// ErrInvalidMode is returned for an unknown Mode.
	ErrInvalidMode = errors.New("invalid assignment mode")
)

// ErrComponentTooLarge indicates a non-bipartite component beyond MaxGeneralComponent.
type ErrComponentTooLarge struct {
	Vertices int
}

func (e *ErrComponentTooLarge) Error() string {
	return fmt.Sprintf("non-bipartite component with %d vertices exceeds limit %d", e.Vertices, MaxGeneralComponent)
}

// Solve returns an optimal one-to-one subset of edges under mode.
// The result is sorted by (From, To, Weight).
func Solve(edges []cluster.Edge, mode Mode) ([]cluster.Edge, error) {
	if mode != Maximize && mode != Minimize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	canon, err := canonicalize(edges, mode)
	if err != nil {
		return nil, err
	}
	if len(canon) == 0 {
		return nil, nil
	}

	var selected []cluster.Edge
	for _, comp := range components(canon) {
		var sel []cluster.Edge
		if rows, cols, ok := bipartition(comp); ok {
			sel = hungarian(comp.edges, rows, cols, mode)
		} else {
			if len(comp.vertices) > MaxGeneralComponent {
				return nil, &ErrComponentTooLarge{Vertices: len(comp.vertices)}
			}
			sel = exhaustive(comp, mode)
		}
		selected = append(selected, sel...)
	}

	sortEdges(selected)
	return selected, nil
}

// Total sums the weights of edges.
func Total(edges []cluster.Edge) float64 {
	var sum float64
	for _, e := range edges {
		sum += e.Weight
	}
	return sum
}

func sortEdges(edges []cluster.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Weight < b.Weight
	})
}

type pair struct{ lo, hi core.ClusterID }

func pairOf(e cluster.Edge) pair {
	if e.From < e.To {
		return pair{e.From, e.To}
	}
	return pair{e.To, e.From}
}

// canonicalize drops self-loops, keeps the best parallel edge per unordered
// pair, and sorts the result.
func canonicalize(edges []cluster.Edge, mode Mode) ([]cluster.Edge, error) {
	sorted := make([]cluster.Edge, 0, len(edges))
	for _, e := range edges {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidWeight, e)
		}
		if e.From == e.To {
			continue
		}
		sorted = append(sorted, e)
	}
	sortEdges(sorted)

	best := make(map[pair]int, len(sorted))
	out := sorted[:0]
	for _, e := range sorted {
		p := pairOf(e)
		if i, ok := best[p]; ok {
			if improves(e.Weight, out[i].Weight, mode) {
				out[i] = e
			}
			continue
		}
		best[p] = len(out)
		out = append(out, e)
	}
	sortEdges(out)
	return out, nil
}

func improves(w, than float64, mode Mode) bool {
	if mode == Maximize {
		return w > than
	}
	return w < than
}

type component struct {
	vertices []core.ClusterID // ascending
	edges    []cluster.Edge   // canonical order
}

// components groups canonical edges into connected components ordered by
// their smallest vertex.
func components(edges []cluster.Edge) []component {
	index := make(map[core.ClusterID]int)
	var verts []core.ClusterID
	for _, e := range edges {
		for _, v := range [2]core.ClusterID{e.From, e.To} {
			if _, ok := index[v]; !ok {
				index[v] = len(verts)
				verts = append(verts, v)
			}
		}
	}

	parent := make([]int, len(verts))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, e := range edges {
		a, b := find(index[e.From]), find(index[e.To])
		if a != b {
			parent[b] = a
		}
	}

	byRoot := make(map[int]*component)
	for _, v := range verts {
		r := find(index[v])
		c, ok := byRoot[r]
		if !ok {
			c = &component{}
			byRoot[r] = c
		}
		c.vertices = append(c.vertices, v)
	}
	for _, e := range edges {
		c := byRoot[find(index[e.From])]
		c.edges = append(c.edges, e)
	}

	out := make([]component, 0, len(byRoot))
	for _, c := range byRoot {
		slices.Sort(c.vertices)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].vertices[0] < out[j].vertices[0]
	})
	return out
}

// bipartition 2-colours a connected component starting from its smallest vertex.
func bipartition(c component) (rows, cols []core.ClusterID, ok bool) {
	adj := make(map[core.ClusterID][]core.ClusterID, len(c.vertices))
	for _, e := range c.edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	color := make(map[core.ClusterID]int, len(c.vertices))
	queue := []core.ClusterID{c.vertices[0]}
	color[c.vertices[0]] = 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, u := range adj[v] {
			cu, seen := color[u]
			if !seen {
				color[u] = 1 - color[v]
				queue = append(queue, u)
				continue
			}
			if cu == color[v] {
				return nil, nil, false
			}
		}
	}

	for _, v := range c.vertices {
		if color[v] == 0 {
			rows = append(rows, v)
		} else {
			cols = append(cols, v)
		}
	}
	return rows, cols, true
}
