// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used by the
// snapshot store, so both AWS S3 and self-hosted MinIO work and tests can use
// the mock in core/storage/mocks.
//
// # Helpers
//
//   - EnsureBucket: creates the target bucket on first use.
//   - IsNotFound: recognises a missing object or bucket.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
