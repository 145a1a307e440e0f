package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver
)

// BucketSource reads image files from an object store bucket.
// Authentication follows the driver defaults (ADC for GCS, the SDK
// credential chain for S3).
type BucketSource struct {
	bucket *blob.Bucket
	prefix string
	log    *slog.Logger
}

// NewBucketSource opens a bucket by URL (file://, gs://, s3://).
func NewBucketSource(ctx context.Context, urlstr, prefix string) (*BucketSource, error) {
	bucket, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", urlstr, err)
	}

	return &BucketSource{
		bucket: bucket,
		prefix: prefix,
		log:    slog.With("component", "source"),
	}, nil
}

// List implements FileSource.List for buckets. The backend's listing order
// defines the arrival order of the batch.
func (s *BucketSource) List(ctx context.Context) ([]RawFile, error) {
	var files []RawFile

	iter := s.bucket.List(&blob.ListOptions{Prefix: s.prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if obj.IsDir || !IsImageFile(obj.Key) {
			continue
		}

		data, err := s.readObject(ctx, obj.Key)
		if err != nil {
			return nil, err
		}

		files = append(files, RawFile{
			Name: path.Base(obj.Key),
			Data: data,
			Seq:  len(files),
		})
	}

	s.log.Info("selected files", "prefix", s.prefix, "count", len(files))
	return files, nil
}

// readObject reads a single object from the bucket.
func (s *BucketSource) readObject(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Close releases the bucket handle.
func (s *BucketSource) Close() error {
	if s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}
