package metricspace

import "github.com/hupe1980/pprl/cluster"

// Snapshot is a read-only, serializable view of the index.
type Snapshot struct {
	Pivots []PivotSnapshot `json:"pivots"`
}

// PivotSnapshot describes one pivot.
type PivotSnapshot struct {
	Cluster  cluster.Snapshot   `json:"cluster"`
	Radius   float64            `json:"radius"`
	Assigned []AssignedSnapshot `json:"assigned"`
}

// AssignedSnapshot is an assigned cluster with its cached distance to the pivot.
type AssignedSnapshot struct {
	Cluster  cluster.Snapshot `json:"cluster"`
	Distance float64          `json:"distance"`
}

// Snapshot copies the current pivot/assignment structure.
func (ix *Index) Snapshot() Snapshot {
	s := Snapshot{Pivots: make([]PivotSnapshot, len(ix.pivots))}
	for i, p := range ix.pivots {
		ps := PivotSnapshot{
			Cluster:  ix.arena.Get(p.cluster).Snapshot(),
			Radius:   p.radius,
			Assigned: make([]AssignedSnapshot, len(p.assigned)),
		}
		for j, id := range p.assigned {
			ps.Assigned[j] = AssignedSnapshot{
				Cluster:  ix.arena.Get(id).Snapshot(),
				Distance: p.distances[j],
			}
		}
		s.Pivots[i] = ps
	}
	return s
}

// Clusters returns every indexed cluster, pivots first within each pivot group.
func (s Snapshot) Clusters() []cluster.Snapshot {
	var out []cluster.Snapshot
	for _, p := range s.Pivots {
		out = append(out, p.Cluster)
		for _, a := range p.Assigned {
			out = append(out, a.Cluster)
		}
	}
	return out
}
