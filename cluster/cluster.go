package cluster

import (
	"fmt"
	"strings"

	"github.com/hupe1980/pprl/core"
	"github.com/hupe1980/pprl/record"
)

// Cluster is a set of records believed to denote one entity.
// It starts as a singleton and only grows by absorbing other clusters.
type Cluster struct {
	id      core.ClusterID
	members []*record.Record
	retired bool
}

// ID returns the stable handle.
func (c *Cluster) ID() core.ClusterID { return c.id }

// Members returns the member records in absorption order.
// Callers must not modify the returned slice.
func (c *Cluster) Members() []*record.Record { return c.members }

// Len returns the member count.
func (c *Cluster) Len() int { return len(c.members) }

// Retired reports whether the cluster was absorbed into another cluster.
func (c *Cluster) Retired() bool { return c.retired }

// RecordIDs returns the member identifiers as "party/id".
func (c *Cluster) RecordIDs() []string {
	ids := make([]string, len(c.members))
	for i, m := range c.members {
		ids[i] = m.String()
	}
	return ids
}

// Absorb moves all members of other into c and retires other.
func (c *Cluster) Absorb(other *Cluster) error {
	if other == c {
		return fmt.Errorf("cluster %d cannot absorb itself", c.id)
	}
	if c.retired {
		return fmt.Errorf("%w: cluster %d", ErrRetired, c.id)
	}
	if other.retired {
		return fmt.Errorf("%w: cluster %d", ErrRetired, other.id)
	}
	c.members = append(c.members, other.members...)
	other.members = nil
	other.retired = true
	return nil
}

// String implements fmt.Stringer.
func (c *Cluster) String() string {
	return fmt.Sprintf("C%d{%s}", c.id, strings.Join(c.RecordIDs(), ","))
}

// Edge is a weighted candidate match between two clusters.
// Weight is a similarity or a distance depending on the protocol.
type Edge struct {
	From   core.ClusterID
	To     core.ClusterID
	Weight float64
}

// String implements fmt.Stringer.
func (e Edge) String() string {
	return fmt.Sprintf("%d-%d(%g)", e.From, e.To, e.Weight)
}

// Snapshot is a read-only view of a cluster.
type Snapshot struct {
	ID      core.ClusterID `json:"id"`
	Records []string       `json:"records"`
}

// Snapshot returns a read-only copy of the cluster's identity and members.
func (c *Cluster) Snapshot() Snapshot {
	return Snapshot{ID: c.id, Records: c.RecordIDs()}
}
