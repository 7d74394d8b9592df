package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"propstore/core/storage/s3"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps one object per key under a prefix of a bucket.
type ObjectStore struct {
	client s3.Client
	bucket string
	prefix string
}

// NewObjectStore returns a store over client, creating the bucket when it
// does not exist yet.
func NewObjectStore(ctx context.Context, client s3.Client, bucket, prefix string) (*ObjectStore, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// objectName escapes key so that every key maps to exactly one object
// directly under the prefix.
func (s *ObjectStore) objectName(key string) string {
	name := url.PathEscape(key)
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *ObjectStore) Get(ctx context.Context, key string) (Value, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if s3.IsNotFound(err) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if s3.IsNotFound(err) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("failed to read object: %w", err)
	}
	return decodeValue(data)
}

func (s *ObjectStore) Set(ctx context.Context, key string, value Value) error {
	data, err := value.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.objectName(key), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  ContentTypeJSON,
		UserMetadata: map[string]string{"Kind": value.Kind().String()},
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Close is a no-op; the MinIO client holds no resources that need releasing.
func (s *ObjectStore) Close() error {
	return nil
}
