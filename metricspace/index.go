package metricspace

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
	"github.com/hupe1980/pprl/similarity"
)

var (
	// ErrAlreadyIndexed is returned when a cluster is indexed twice.
	ErrAlreadyIndexed = errors.New("cluster already indexed")

	// ErrUnknownCluster is returned for handles the arena or index does not know.
	ErrUnknownCluster = errors.New("unknown cluster")
)

// Pivot is a reference cluster with its assigned clusters.
type Pivot struct {
	cluster   core.ClusterID
	radius    float64
	assigned  []core.ClusterID
	distances []float64
}

// Cluster returns the pivot's own cluster handle.
func (p *Pivot) Cluster() core.ClusterID { return p.cluster }

// Radius returns the largest distance to any cluster ever assigned.
func (p *Pivot) Radius() float64 { return p.radius }

// Len returns the number of assigned clusters.
func (p *Pivot) Len() int { return len(p.assigned) }

// Assigned returns the assigned handles. Callers must not modify it.
func (p *Pivot) Assigned() []core.ClusterID { return p.assigned }

// Distances returns the cached distances, aligned with Assigned.
// Callers must not modify it.
func (p *Pivot) Distances() []float64 { return p.distances }

type location struct {
	pivot int
	slot  int // -1: the pivot's own cluster
}

// Index is a dynamic metric-space index. It is owned by a single writer.
type Index struct {
	arena           *cluster.Arena
	metric          similarity.Metric
	maxIntersection float64

	pivots    []*Pivot
	pivotDist [][]float64 // pivotDist[i][j], j < i
	where     map[core.ClusterID]location
	indexed   *roaring.Bitmap
	onIndex   func(promoted bool)
}

// New creates an empty index.
func New(arena *cluster.Arena, metric similarity.Metric, maxIntersection float64) *Index {
	return &Index{
		arena:           arena,
		metric:          metric,
		maxIntersection: maxIntersection,
		where:           make(map[core.ClusterID]location),
		indexed:         roaring.New(),
	}
}

// OnIndex registers fn to be called once per indexed cluster; promoted is set
// when the cluster became a pivot.
func (ix *Index) OnIndex(fn func(promoted bool)) { ix.onIndex = fn }

func (ix *Index) notify(promoted bool) {
	if ix.onIndex != nil {
		ix.onIndex(promoted)
	}
}

// Len returns the number of indexed clusters, pivots included.
func (ix *Index) Len() int { return int(ix.indexed.GetCardinality()) }

// Contains reports whether id is indexed.
func (ix *Index) Contains(id core.ClusterID) bool { return ix.indexed.Contains(uint32(id)) }

// Pivots returns the pivots in creation order. Callers must not modify them.
func (ix *Index) Pivots() []*Pivot { return ix.pivots }

// IsPivot reports whether id is a pivot.
func (ix *Index) IsPivot(id core.ClusterID) bool {
	loc, ok := ix.where[id]
	return ok && loc.slot < 0
}

// Bootstrap selects initial pivots among clusters and assigns the rest.
func (ix *Index) Bootstrap(clusters []*cluster.Cluster, sel Selector) error {
	if len(clusters) == 0 {
		return nil
	}
	pivots, err := sel.Select(clusters, ix.metric)
	if err != nil {
		return fmt.Errorf("select pivots: %w", err)
	}
	if err := ix.SetInitialPivots(pivots); err != nil {
		return err
	}
	return ix.Assign(cluster.IDs(clusters))
}

// SetInitialPivots turns the given clusters into pivots with radius 0.
func (ix *Index) SetInitialPivots(ids []core.ClusterID) error {
	for _, id := range ids {
		if err := ix.promote(id); err != nil {
			return err
		}
	}
	return nil
}

// Assign indexes every cluster that is not indexed yet, in order.
func (ix *Index) Assign(ids []core.ClusterID) error {
	for _, id := range ids {
		if ix.Contains(id) {
			continue
		}
		if err := ix.assign(id); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) assign(id core.ClusterID) error {
	c := ix.arena.Get(id)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrUnknownCluster, id)
	}

	type cand struct {
		pivot int
		dist  float64
	}
	cands := make([]cand, len(ix.pivots))
	for i, p := range ix.pivots {
		d, err := ix.distance(p.cluster, c)
		if err != nil {
			return err
		}
		cands[i] = cand{pivot: i, dist: d}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	for _, cd := range cands {
		if !ix.eligible(cd.pivot, cd.dist) {
			continue
		}
		p := ix.pivots[cd.pivot]
		ix.where[id] = location{pivot: cd.pivot, slot: len(p.assigned)}
		p.assigned = append(p.assigned, id)
		p.distances = append(p.distances, cd.dist)
		p.radius = math.Max(p.radius, cd.dist)
		ix.indexed.Add(uint32(id))
		ix.notify(false)
		return nil
	}
	return ix.promote(id)
}

func (ix *Index) eligible(pi int, d float64) bool {
	p := ix.pivots[pi]
	if d <= p.radius {
		return true
	}
	for qi, q := range ix.pivots {
		if qi == pi {
			continue
		}
		if Intersection(ix.pivotDistance(pi, qi), d, q.radius) > ix.maxIntersection {
			return false
		}
	}
	return true
}

func (ix *Index) promote(id core.ClusterID) error {
	if ix.Contains(id) {
		return fmt.Errorf("%w: %d", ErrAlreadyIndexed, id)
	}
	c := ix.arena.Get(id)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrUnknownCluster, id)
	}

	row := make([]float64, len(ix.pivots))
	for i, p := range ix.pivots {
		d, err := ix.distance(p.cluster, c)
		if err != nil {
			return err
		}
		row[i] = d
	}

	ix.where[id] = location{pivot: len(ix.pivots), slot: -1}
	ix.pivots = append(ix.pivots, &Pivot{cluster: id})
	ix.pivotDist = append(ix.pivotDist, row)
	ix.indexed.Add(uint32(id))
	ix.notify(true)
	return nil
}

func (ix *Index) pivotDistance(i, j int) float64 {
	if i == j {
		return 0
	}
	if j > i {
		i, j = j, i
	}
	return ix.pivotDist[i][j]
}

func (ix *Index) distance(a core.ClusterID, b *cluster.Cluster) (float64, error) {
	ca := ix.arena.Get(a)
	if ca == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCluster, a)
	}
	return similarity.CheckDistance(ix.metric.Distance(ca, b))
}

// SearchStats counts the work done by one Search.
type SearchStats struct {
	Pivots         int
	PivotsPruned   int
	TrianglePruned int
	DistanceCalls  int
	Candidates     int
}

// Add accumulates other into s.
func (s *SearchStats) Add(other SearchStats) {
	s.Pivots += other.Pivots
	s.PivotsPruned += other.PivotsPruned
	s.TrianglePruned += other.TrianglePruned
	s.DistanceCalls += other.DistanceCalls
	s.Candidates += other.Candidates
}

// Search returns an edge (candidate → query) weighted by true distance for
// every indexed cluster within radius of query.
func (ix *Index) Search(query *cluster.Cluster, radius float64) ([]cluster.Edge, SearchStats, error) {
	var (
		edges []cluster.Edge
		stats SearchStats
	)
	for _, p := range ix.pivots {
		stats.Pivots++
		dPQ, err := ix.distance(p.cluster, query)
		if err != nil {
			return nil, stats, err
		}
		stats.DistanceCalls++

		if !Overlaps(dPQ, p.radius, radius) {
			stats.PivotsPruned++
			continue
		}
		if SatisfiesTriangle(dPQ, 0, radius) {
			stats.Candidates++
			edges = append(edges, cluster.Edge{From: p.cluster, To: query.ID(), Weight: dPQ})
		}

		for j, x := range p.assigned {
			if !SatisfiesTriangle(dPQ, p.distances[j], radius) {
				stats.TrianglePruned++
				continue
			}
			dXQ, err := ix.distance(x, query)
			if err != nil {
				return nil, stats, err
			}
			stats.DistanceCalls++
			if dXQ <= radius {
				stats.Candidates++
				edges = append(edges, cluster.Edge{From: x, To: query.ID(), Weight: dXQ})
			}
		}
	}
	return edges, stats, nil
}

// Refresh recomputes cached distances involving id after its membership grew.
// Radii only ever grow.
func (ix *Index) Refresh(id core.ClusterID) error {
	loc, ok := ix.where[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCluster, id)
	}
	p := ix.pivots[loc.pivot]

	if loc.slot >= 0 {
		d, err := ix.distance(p.cluster, ix.arena.Get(id))
		if err != nil {
			return err
		}
		p.distances[loc.slot] = d
		p.radius = math.Max(p.radius, d)
		return nil
	}

	self := ix.arena.Get(id)
	for j, x := range p.assigned {
		d, err := ix.distance(x, self)
		if err != nil {
			return err
		}
		p.distances[j] = d
		p.radius = math.Max(p.radius, d)
	}
	for qi, q := range ix.pivots {
		if qi == loc.pivot {
			continue
		}
		d, err := ix.distance(q.cluster, self)
		if err != nil {
			return err
		}
		if qi < loc.pivot {
			ix.pivotDist[loc.pivot][qi] = d
		} else {
			ix.pivotDist[qi][loc.pivot] = d
		}
	}
	return nil
}

// Overlaps reports whether the query ball can intersect the pivot ball.
// The boundary is included.
func Overlaps(dPQ, pivotRadius, queryRadius float64) bool {
	return dPQ <= pivotRadius+queryRadius
}

// SatisfiesTriangle reports whether a cluster at cached distance dPX from the
// pivot may lie within queryRadius of a query at distance dPQ.
func SatisfiesTriangle(dPQ, dPX, queryRadius float64) bool {
	return math.Abs(dPQ-dPX) <= queryRadius
}

// Intersection returns the normalized overlap of two balls with radii r1 and
// r2 whose centres are d apart: max(0, r1+r2−d)/(r1+r2), capped at 1.
func Intersection(d, r1, r2 float64) float64 {
	sum := r1 + r2
	if sum <= 0 {
		return 0
	}
	overlap := sum - d
	if overlap <= 0 {
		return 0
	}
	return math.Min(1, overlap/sum)
}
