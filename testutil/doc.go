// Package testutil provides testing utilities for pprl.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic Bloom-filter encodings, noisy copies of them
// held by several parties, and scores linkage results against the known
// ground truth.
//
// # Random Encodings
//
//	rng := testutil.NewRNG(seed)
//	entities := rng.Entities(50, 1024, 100)   // 50 entities, 100 bits set each
//	p, _ := rng.Party("A", entities, 1024, 4, testutil.SingleBlock)
//
// # Pair Quality
//
//	precision, recall := testutil.PairQuality(truth, clusters)
package testutil
