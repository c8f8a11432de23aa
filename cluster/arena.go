package cluster

import (
	"errors"
	"sync"

	"github.com/hupe1980/pprl/core"
	"github.com/hupe1980/pprl/record"
)

var (
	// ErrRetired is returned when an absorbed cluster is used again.
	ErrRetired = errors.New("cluster is retired")

	// ErrArenaFull is returned when no more handles can be allocated.
	ErrArenaFull = errors.New("cluster arena is full")
)

// Arena owns all clusters of a run and maps handles to clusters.
// Allocation and lookup are safe for concurrent use; mutating a cluster is
// left to its single owner (one block graph or one index).
type Arena struct {
	mu       sync.RWMutex
	clusters []*Cluster
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a singleton cluster for r.
func (a *Arena) New(r *record.Record) (*Cluster, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if uint64(len(a.clusters)) >= uint64(core.InvalidClusterID) {
		return nil, ErrArenaFull
	}
	c := &Cluster{
		id:      core.ClusterID(len(a.clusters)),
		members: []*record.Record{r},
	}
	a.clusters = append(a.clusters, c)
	return c, nil
}

// Singletons allocates one singleton cluster per record, in order.
func (a *Arena) Singletons(records []*record.Record) ([]*Cluster, error) {
	out := make([]*Cluster, 0, len(records))
	for _, r := range records {
		c, err := a.New(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Get returns the cluster for id, or nil if id was never allocated.
func (a *Arena) Get(id core.ClusterID) *Cluster {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if int(id) >= len(a.clusters) {
		return nil
	}
	return a.clusters[id]
}

// Len returns the number of allocated clusters, retired ones included.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.clusters)
}

// Live returns all clusters that have not been retired, in handle order.
func (a *Arena) Live() []*Cluster {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*Cluster, 0, len(a.clusters))
	for _, c := range a.clusters {
		if !c.retired {
			out = append(out, c)
		}
	}
	return out
}

// IDs extracts the handles of clusters.
func IDs(clusters []*Cluster) []core.ClusterID {
	ids := make([]core.ClusterID, len(clusters))
	for i, c := range clusters {
		ids[i] = c.id
	}
	return ids
}
