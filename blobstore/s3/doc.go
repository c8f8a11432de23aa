// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx, config.WithRegion("eu-central-1"))
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "pprl/runs")
//	err := store.Put(ctx, "2024-01-01.snap", data)
//
// # Features
//
//   - Multipart uploads for large snapshots via the upload manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
