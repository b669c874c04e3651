package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"listing-sync/core/reconcile"
	"listing-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBucket = "listing-sync"
	testObject = "listing-sync/snapshot.json"
)

// failingReader fails on first read the way a lazily fetched minio object does.
type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }
func (f failingReader) Close() error             { return nil }

func TestObjectStore_Load(t *testing.T) {
	ctx := context.Background()
	stored, err := json.Marshal(reconcile.NewSnapshot(entries("2", "1")))
	require.NoError(t, err)

	tests := []struct {
		name    string
		obj     io.ReadCloser
		getErr  error
		want    []reconcile.SnapshotEntry
		wantErr bool
	}{
		{"Stored", mocks.Body(string(stored)), nil, entries("2", "1"), false},
		{"Missing on get", nil, minio.ErrorResponse{Code: "NoSuchKey"}, nil, false},
		{"Missing on read", failingReader{minio.ErrorResponse{Code: "NoSuchKey"}}, nil, nil, false},
		{"Missing bucket", nil, minio.ErrorResponse{Code: "NoSuchBucket"}, nil, false},
		{"Denied", nil, minio.ErrorResponse{Code: "AccessDenied"}, nil, true},
		{"Corrupt", mocks.Body("{"), nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.Client)
			client.On("GetObject", ctx, testBucket, testObject, minio.GetObjectOptions{}).Return(tt.obj, tt.getErr)
			store := NewObjectStore(client, testBucket, testObject, "")

			snap, err := store.Load(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.Entries)
		})
	}
}

func TestObjectStore_Save(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	store := NewObjectStore(client, testBucket, testObject, "ap-southeast-2")

	client.On("BucketExists", ctx, testBucket).Return(false, nil)
	client.On("MakeBucket", ctx, testBucket, minio.MakeBucketOptions{Region: "ap-southeast-2"}).Return(nil)
	client.On("PutObject", ctx, testBucket, testObject, mock.Anything, mock.AnythingOfType("int64"),
		minio.PutObjectOptions{ContentType: "application/json"}).
		Return(minio.UploadInfo{}, nil)

	require.NoError(t, store.Save(ctx, reconcile.NewSnapshot(entries("1"))))
	client.AssertExpectations(t)

	var got reconcile.Snapshot
	require.NoError(t, json.Unmarshal(client.Written(testBucket, testObject), &got))
	assert.Equal(t, entries("1"), got.Entries)
}

func TestObjectStore_SaveFailure(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	store := NewObjectStore(client, testBucket, testObject, "")

	client.On("BucketExists", ctx, testBucket).Return(true, nil)
	client.On("PutObject", ctx, testBucket, testObject, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("disk full"))

	err := store.Save(ctx, reconcile.Snapshot{})
	assert.ErrorContains(t, err, "disk full")
}
