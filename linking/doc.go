// Package linking implements streaming record linkage over a dynamic
// metric-space index.
//
// The records of the first party seed the index: a pivot selector picks the
// initial pivots and every other record is assigned to its nearest eligible
// pivot. Each later party then queries the index record by record. A query
// only visits pivots whose ball can reach it and only computes distances to
// assigned clusters that the triangle inequality cannot exclude. Surviving
// candidates are matched to queries by a minimum-distance assignment; linked
// queries join their cluster and the rest are indexed for the next party.
package linking
