// Package cluster provides the mutable entity cluster, the weighted candidate
// edge, and an arena that hands out stable cluster handles.
//
// Clusters have identity semantics: two clusters with identical members are
// still distinct entities. Every structure that refers to a cluster stores its
// core.ClusterID, never the member set.
package cluster
