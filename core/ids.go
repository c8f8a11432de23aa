package core

// ClusterID is a stable, arena-local handle for a cluster.
// Two clusters with identical members still have distinct handles; all
// pivot, assignment and graph structures key on the handle.
type ClusterID uint32

// InvalidClusterID is never handed out by an arena.
const InvalidClusterID = ^ClusterID(0)
