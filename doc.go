// Package pprl provides multi-party privacy-preserving record linkage for Go.
//
// Parties hold records encoded as fixed-length Bloom filters. Two incremental
// protocols group those records into clusters that are believed to denote the
// same real-world entity, without ever looking at plaintext attributes.
//
// # Protocols
//
// The clustering package implements blocked incremental clustering. Records
// are compared only within their blocking key; each party step resolves its
// candidate matches with an exact optimal assignment:
//
//	p, _ := clustering.New(parties, pprl.WithSimilarityThreshold(0.8))
//	res, _ := p.Run(ctx)
//	for _, c := range res.Clusters {
//	    fmt.Println(c.ID, c.Records)
//	}
//
// The linking package implements streaming linkage over a dynamic metric-space
// index. The first party seeds pivots; every later party queries the index,
// and the triangle inequality prunes most distance computations:
//
//	p, _ := linking.New(parties, pprl.WithPivotSelector(metricspace.FarthestFirst(8)))
//	res, _ := p.Run(ctx)
//
// # Enhanced Privacy
//
// WithEnhancedPrivacy re-encodes the records of all participants before every
// party step with an encoder keyed on the participant set, and switches to a
// similarity oracle that only sees the re-encoded filters:
//
//	p, _ := clustering.New(parties,
//	    pprl.WithEnhancedPrivacy(true),
//	    pprl.WithEncodingHandler(encoding.NewPermutationHandler(secret)),
//	)
//
// # Persistence
//
// Results can be written as self-describing snapshot frames to a local
// directory, Amazon S3 or MinIO via the snapshot and blobstore packages. The
// cmd/pprl binary wires all of this behind a YAML run configuration.
//
// # Observability
//
// Structured logging uses log/slog through Logger. Operational counters are
// reported to a MetricsCollector; BasicMetricsCollector keeps them in memory.
package pprl
