// Package s3 wraps the MinIO Go client for the object storage backend.
//
// The Client interface abstracts the provider (AWS S3 or self-hosted MinIO) so the
// backend can be tested against the testify mock in core/storage/s3/mocks.
package s3
