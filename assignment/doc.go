// Package assignment computes exact optimal one-to-one assignments over a
// weighted edge set.
//
// Solve never selects two edges that share an endpoint. In Maximize mode it
// maximizes the total weight (similarities). In Minimize mode it minimizes the
// total weight among the matchings of maximum cardinality (distances), since
// the unconstrained minimum would always be the empty matching.
//
// The edge set is split into connected components. Bipartite components are
// solved with the Hungarian algorithm in O(n³); non-bipartite components are
// solved exactly by memoized search, up to MaxGeneralComponent vertices.
//
// Input is canonicalized before solving, so the result only depends on the
// edge set and the mode, never on input order.
package assignment
