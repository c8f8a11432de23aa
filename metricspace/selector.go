package metricspace

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
	"github.com/hupe1980/pprl/similarity"
)

// ErrInvalidPivotCount is returned for a negative pivot count.
var ErrInvalidPivotCount = errors.New("pivot count must not be negative")

// Selector chooses the initial pivots among the bootstrap clusters.
type Selector interface {
	Select(candidates []*cluster.Cluster, metric similarity.Metric) ([]core.ClusterID, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(candidates []*cluster.Cluster, metric similarity.Metric) ([]core.ClusterID, error)

// Select implements Selector.
func (f SelectorFunc) Select(candidates []*cluster.Cluster, metric similarity.Metric) ([]core.ClusterID, error) {
	return f(candidates, metric)
}

// pivotCount resolves k; 0 means ceil(sqrt(n)).
func pivotCount(k, n int) (int, error) {
	if k < 0 {
		return 0, ErrInvalidPivotCount
	}
	if k == 0 {
		k = int(math.Ceil(math.Sqrt(float64(n))))
	}
	return min(k, n), nil
}

// FirstN picks the first k candidates in order.
func FirstN(k int) Selector {
	return SelectorFunc(func(candidates []*cluster.Cluster, _ similarity.Metric) ([]core.ClusterID, error) {
		n, err := pivotCount(k, len(candidates))
		if err != nil {
			return nil, err
		}
		return cluster.IDs(candidates[:n]), nil
	})
}

// Random picks k candidates uniformly with a fixed seed, preserving their
// original order.
func Random(k int, seed int64) Selector {
	return SelectorFunc(func(candidates []*cluster.Cluster, _ similarity.Metric) ([]core.ClusterID, error) {
		n, err := pivotCount(k, len(candidates))
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(seed)) // nolint gosec
		picked := rng.Perm(len(candidates))[:n]
		sort.Ints(picked)

		out := make([]core.ClusterID, n)
		for i, idx := range picked {
			out[i] = candidates[idx].ID()
		}
		return out, nil
	})
}

// FarthestFirst starts from the first candidate and repeatedly adds the
// candidate farthest from all pivots chosen so far (ties: earliest).
// k = 0 selects ceil(sqrt(n)) pivots.
func FarthestFirst(k int) Selector {
	return SelectorFunc(func(candidates []*cluster.Cluster, metric similarity.Metric) ([]core.ClusterID, error) {
		n, err := pivotCount(k, len(candidates))
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, nil
		}

		nearest := make([]float64, len(candidates))
		for i := range nearest {
			nearest[i] = math.Inf(1)
		}
		chosen := make([]bool, len(candidates))
		out := make([]core.ClusterID, 0, n)

		next := 0
		for len(out) < n {
			chosen[next] = true
			out = append(out, candidates[next].ID())
			if len(out) == n {
				break
			}

			best, bestDist := -1, -1.0
			for i, c := range candidates {
				if chosen[i] {
					continue
				}
				d, err := similarity.CheckDistance(metric.Distance(candidates[next], c))
				if err != nil {
					return nil, err
				}
				nearest[i] = math.Min(nearest[i], d)
				if nearest[i] > bestDist {
					best, bestDist = i, nearest[i]
				}
			}
			if best < 0 {
				break
			}
			next = best
		}
		return out, nil
	})
}
