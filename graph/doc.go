// Package graph implements the weighted candidate graph used for one block or
// one indexing step.
//
// Vertices are cluster handles kept in a roaring bitmap, so iteration is
// always in ascending handle order. Edges are pre-filtered candidates; the
// only structural mutation is MergeClusters, which consumes a one-to-one edge
// set selected by the assignment solver.
package graph
