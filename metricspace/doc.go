// Package metricspace implements a dynamic pivot index over clusters.
//
// Every indexed cluster is either a pivot or assigned to exactly one pivot.
// A pivot keeps index-aligned lists of its assigned clusters and their cached
// distances to it, plus a radius: the largest distance to any cluster ever
// assigned. Pivots are never removed.
//
// # Search
//
// A query Q with radius rQ skips pivot P unless d(P,Q) ≤ rP + rQ. For a
// surviving pivot, an assigned cluster X is only compared with Q when
// |d(P,Q) − d(P,X)| ≤ rQ, a bound that reuses the cached d(P,X). By the
// triangle inequality no cluster within rQ of Q is ever discarded.
//
// # Assignment
//
// A new cluster goes to the nearest eligible pivot. A pivot is eligible when
// the cluster already lies inside its ball, or when growing the ball to reach
// it keeps the normalized intersection with every other pivot's ball at or
// below the maximal intersection. Otherwise the cluster becomes a new pivot.
package metricspace
