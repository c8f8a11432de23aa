package graph

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/core"
)

var (
	// ErrAssignmentInconsistency is returned when a selected edge set shares an
	// endpoint. It indicates a solver defect and is never retried.
	ErrAssignmentInconsistency = errors.New("assignment inconsistency: selected edges share an endpoint")

	// ErrUnknownVertex is returned when an edge refers to a cluster that is not a vertex.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Graph is a set of cluster vertices plus candidate edges.
// It is owned by a single writer.
type Graph struct {
	arena    *cluster.Arena
	vertices *roaring.Bitmap
	edges    []cluster.Edge
}

// New creates an empty graph whose vertices live in arena.
func New(arena *cluster.Arena) *Graph {
	return &Graph{
		arena:    arena,
		vertices: roaring.New(),
	}
}

// AddCluster inserts a vertex. Re-adding an existing vertex is a no-op.
func (g *Graph) AddCluster(id core.ClusterID) {
	g.vertices.Add(uint32(id))
}

// AddClusters inserts vertices.
func (g *Graph) AddClusters(ids []core.ClusterID) {
	for _, id := range ids {
		g.vertices.Add(uint32(id))
	}
}

// AddEdge records a candidate edge. Callers gate by threshold before calling.
// Endpoints need not be vertices yet, but must be before MergeClusters.
func (g *Graph) AddEdge(from, to core.ClusterID, weight float64) {
	g.edges = append(g.edges, cluster.Edge{From: from, To: to, Weight: weight})
}

// Edges returns the current edge set in insertion order.
func (g *Graph) Edges() []cluster.Edge {
	return g.edges
}

// Contains reports whether id is a vertex.
func (g *Graph) Contains(id core.ClusterID) bool {
	return g.vertices.Contains(uint32(id))
}

// IsEmpty reports whether the graph has no vertices.
func (g *Graph) IsEmpty() bool {
	return g.vertices.IsEmpty()
}

// Len returns the vertex count.
func (g *Graph) Len() int {
	return int(g.vertices.GetCardinality())
}

// ClusterIDs returns the vertices in ascending handle order.
func (g *Graph) ClusterIDs() []core.ClusterID {
	out := make([]core.ClusterID, 0, g.vertices.GetCardinality())
	it := g.vertices.Iterator()
	for it.HasNext() {
		out = append(out, core.ClusterID(it.Next()))
	}
	return out
}

// Clusters returns the vertex clusters in ascending handle order.
func (g *Graph) Clusters() []*cluster.Cluster {
	ids := g.ClusterIDs()
	out := make([]*cluster.Cluster, len(ids))
	for i, id := range ids {
		out[i] = g.arena.Get(id)
	}
	return out
}

// MergeClusters absorbs, for every selected edge (From, To), the To cluster into
// the From cluster and removes To from the vertex set. The edge set is consumed.
//
// The whole selection is validated before anything is merged: a shared
// endpoint yields ErrAssignmentInconsistency, a non-vertex endpoint yields
// ErrUnknownVertex.
func (g *Graph) MergeClusters(selected []cluster.Edge) (int, error) {
	used := roaring.New()
	for _, e := range selected {
		for _, id := range [2]core.ClusterID{e.From, e.To} {
			if !g.vertices.Contains(uint32(id)) {
				return 0, fmt.Errorf("%w: %d", ErrUnknownVertex, id)
			}
			if !used.CheckedAdd(uint32(id)) {
				return 0, fmt.Errorf("%w: cluster %d", ErrAssignmentInconsistency, id)
			}
		}
	}

	merged := 0
	for _, e := range selected {
		into, from := g.arena.Get(e.From), g.arena.Get(e.To)
		if err := into.Absorb(from); err != nil {
			return merged, err
		}
		g.vertices.Remove(uint32(e.To))
		merged++
	}
	g.edges = nil
	return merged, nil
}
