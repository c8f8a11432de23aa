// Package encoding provides the reference re-encoder for enhanced-privacy mode.
//
// PermutationHandler derives a bit permutation from the participant set and
// applies it to every record's original encoding. All records re-encoded for
// the same participant set share one permutation, so Dice, Jaccard and Hamming
// between them are unchanged, while encodings published under different
// participant sets cannot be compared bit by bit.
package encoding
