// Package clustering implements blocked incremental clustering across parties.
//
// Parties are visited in descending order of size. Within each blocking key a
// graph of clusters grows party by party: every record of the next party is
// compared with every cluster already in the block, candidate matches above
// the similarity threshold become edges, and an exact maximum-weight
// assignment decides which record joins which cluster. Unmatched records stay
// singletons. Records of different blocks are never compared.
package clustering
