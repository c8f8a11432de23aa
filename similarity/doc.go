// Package similarity defines the similarity and distance oracles consumed by
// the linkage protocols, plus reference implementations over Bloom-filter
// encodings.
//
// # Oracles
//
//   - Plain: average Dice coefficient between a record and a cluster's members
//   - Secure: average Dice coefficient over re-encoded filters of a fixed
//     encoding length, used after enhanced-privacy re-encoding
//   - AverageHamming: average pairwise symmetric-difference cardinality between
//     two clusters (the metric used by the pivot index)
//
// A Jaccard similarity of at least t between encodings A and B bounds their
// Hamming distance by |A|·(1−t)/t, which is what QueryRadius computes.
//
// Values returned by oracles are range-checked by CheckSimilarity and
// CheckDistance; violations wrap ErrOracleFailure.
package similarity
