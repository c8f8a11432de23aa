package assignment

import (
	"math"

	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
)

// hungarian solves a bipartite component on a padded square cost matrix.
//
// Maximize: real edges cost -w, absent pairs cost 0.
// Minimize: real edges cost w, absent pairs cost big, where big exceeds any
// possible difference in real cost, so the number of real pairs is maximized
// first.
func hungarian(edges []cluster.Edge, rows, cols []core.ClusterID, mode Mode) []cluster.Edge {
	rowIdx := make(map[core.ClusterID]int, len(rows))
	for i, v := range rows {
		rowIdx[v] = i
	}
	colIdx := make(map[core.ClusterID]int, len(cols))
	for j, v := range cols {
		colIdx[v] = j
	}

	n := max(len(rows), len(cols))

	var absent float64
	if mode == Minimize {
		var sum float64
		for _, e := range edges {
			sum += math.Abs(e.Weight)
		}
		absent = 2*sum + 1
	}

	cost := make([][]float64, n)
	edgeAt := make([][]int, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		edgeAt[i] = make([]int, n)
		for j := range cost[i] {
			cost[i][j] = absent
			edgeAt[i][j] = -1
		}
	}
	for k, e := range edges {
		i, ok := rowIdx[e.From]
		j := colIdx[e.To]
		if !ok {
			i, j = rowIdx[e.To], colIdx[e.From]
		}
		edgeAt[i][j] = k
		if mode == Maximize {
			cost[i][j] = -e.Weight
		} else {
			cost[i][j] = e.Weight
		}
	}

	var out []cluster.Edge
	for i, j := range solveSquare(cost) {
		if k := edgeAt[i][j]; k >= 0 {
			out = append(out, edges[k])
		}
	}
	return out
}

// solveSquare returns, for every row, the column assigned by a minimum-cost
// perfect assignment of the n×n cost matrix (shortest augmenting path with
// potentials).
func solveSquare(cost [][]float64) []int {
	n := len(cost)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j]: row matched to column j, 1-based, 0 = free
	way := make([]int, n+1)

	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			assign[p[j]-1] = j - 1
		}
	}
	return assign
}
