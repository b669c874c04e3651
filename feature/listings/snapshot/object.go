package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"listing-sync/core/reconcile"
	"listing-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps the snapshot as one JSON object in a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
	region string
}

// NewObjectStore creates an object-storage-backed snapshot store.
func NewObjectStore(client storage.Client, bucket, object, region string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, object: object, region: region}
}

// Load reads the snapshot object. A missing object or bucket is an empty snapshot.
func (s *ObjectStore) Load(ctx context.Context) (reconcile.Snapshot, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return reconcile.Snapshot{}, nil
		}
		return reconcile.Snapshot{}, fmt.Errorf("failed to get %s/%s: %w", s.bucket, s.object, err)
	}
	defer obj.Close()

	var snap reconcile.Snapshot
	// minio reports a missing object on first read.
	if err := json.NewDecoder(obj).Decode(&snap); err != nil {
		if storage.IsNotFound(err) {
			return reconcile.Snapshot{}, nil
		}
		return reconcile.Snapshot{}, fmt.Errorf("failed to decode %s/%s: %w", s.bucket, s.object, err)
	}
	return reconcile.NewSnapshot(snap.Entries), nil
}

// Save overwrites the snapshot object, creating the bucket on first use.
func (s *ObjectStore) Save(ctx context.Context, snap reconcile.Snapshot) error {
	if snap.Entries == nil {
		snap.Entries = []reconcile.SnapshotEntry{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", s.bucket, s.object, err)
	}
	return nil
}
