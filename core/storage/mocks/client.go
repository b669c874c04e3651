package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client.
// PutObject drains its reader so tests can inspect what was written.
type Client struct {
	mock.Mock

	mu      sync.Mutex
	written map[string][]byte
}

// Written returns the last body put to bucket/object.
func (m *Client) Written(bucketName, objectName string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written[bucketName+"/"+objectName]
}

// Body wraps s as an object body for GetObject expectations.
func Body(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewBufferString(s))
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	m.mu.Lock()
	if m.written == nil {
		m.written = make(map[string][]byte)
	}
	m.written[bucketName+"/"+objectName] = body
	m.mu.Unlock()

	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	if obj, ok := args.Get(0).(io.ReadCloser); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}
