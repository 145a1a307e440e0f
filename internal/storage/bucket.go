package storage

import (
	"context"
	"fmt"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver
)

// BucketStore writes batch outputs to an object store bucket.
type BucketStore struct {
	bucket  *blob.Bucket
	urlBase string
	prefix  string
}

// NewBucketStore opens a bucket by URL (file://, gs://, s3://).
// Authentication follows the driver defaults.
func NewBucketStore(ctx context.Context, urlstr, prefix string) (*BucketStore, error) {
	bucket, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", urlstr, err)
	}

	return &BucketStore{
		bucket:  bucket,
		urlBase: strings.TrimRight(urlstr, "/"),
		prefix:  prefix,
	}, nil
}

// WriteFile writes a payload to the bucket.
func (s *BucketStore) WriteFile(ctx context.Context, ref BatchRef, name string, data []byte) error {
	key := ref.Path(s.prefix, name)
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return nil
}

// WriteManifest writes the batch manifest to the bucket.
func (s *BucketStore) WriteManifest(ctx context.Context, ref BatchRef, manifest *Manifest) error {
	data, err := manifest.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	key := ref.ManifestPath(s.prefix)
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: "application/json",
	}); err != nil {
		return fmt.Errorf("write manifest %s: %w", key, err)
	}
	return nil
}

// Exists checks if a batch file already exists in the bucket.
func (s *BucketStore) Exists(ctx context.Context, ref BatchRef, name string) (bool, error) {
	return s.bucket.Exists(ctx, ref.Path(s.prefix, name))
}

// URI returns the canonical URI for the given key.
func (s *BucketStore) URI(key string) string {
	return s.urlBase + "/" + key
}

// Close releases the bucket handle.
func (s *BucketStore) Close() error {
	if s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}
