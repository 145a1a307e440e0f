package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BatchRef describes where one batch's outputs live.
type BatchRef struct {
	BatchID string
}

// Path returns the storage key for a file belonging to this batch.
func (r BatchRef) Path(prefix, name string) string {
	return fmt.Sprintf("%sbatch=%s/%s", prefix, r.BatchID, name)
}

// ManifestPath returns the storage key for this batch's manifest.
func (r BatchRef) ManifestPath(prefix string) string {
	return r.Path(prefix, "_manifest.json")
}

// Manifest describes the contents of a batch directory.
type Manifest struct {
	Batch     BatchInfo      `json:"batch"`
	Artifacts []ArtifactInfo `json:"artifacts"`
	Failures  []FailureInfo  `json:"failures,omitempty"`
	Producer  ProducerInfo   `json:"producer"`
	CreatedAt time.Time      `json:"created_at"`
}

// BatchInfo describes the batch boundaries.
type BatchInfo struct {
	ID         string    `json:"id"`
	Groups     int       `json:"groups"`
	Incomplete int       `json:"incomplete_groups"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
}

// ArtifactInfo describes a single merged artifact in the batch.
type ArtifactInfo struct {
	GroupKey string `json:"group_key"`
	File     string `json:"file"`
	Checksum string `json:"checksum"`
	ByteSize int64  `json:"byte_size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// FailureInfo describes a group that failed compositing.
type FailureInfo struct {
	GroupKey string `json:"group_key"`
	Error    string `json:"error"`
}

// ProducerInfo describes the software that produced the batch.
type ProducerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	GitSHA  string `json:"git_sha,omitempty"`
}

// MarshalJSON returns the manifest as indented JSON bytes.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	type Alias Manifest
	return json.MarshalIndent((*Alias)(m), "", "  ")
}

// ArtifactStore abstracts writing batch outputs to storage.
type ArtifactStore interface {
	// WriteFile writes a named payload (merged image, archive, spreadsheet)
	// under the batch directory.
	WriteFile(ctx context.Context, ref BatchRef, name string, data []byte) error

	// WriteManifest writes the batch manifest.
	WriteManifest(ctx context.Context, ref BatchRef, manifest *Manifest) error

	// Exists checks if a named file already exists for the batch.
	Exists(ctx context.Context, ref BatchRef, name string) (bool, error)

	// URI returns the canonical URI for the given key.
	// For local: file:///path, GCS: gs://bucket/path, S3: s3://bucket/path.
	URI(key string) string

	// Close releases any resources.
	Close() error
}

// Config configures the storage backend.
type Config struct {
	Backend   string // "local" | "bucket"
	LocalDir  string // base directory for local backend
	BucketURL string // file://, gs:// or s3:// URL for bucket backend
	Prefix    string // key prefix within the bucket or local dir
}

// NewArtifactStore creates a storage backend based on configuration.
func NewArtifactStore(ctx context.Context, cfg Config) (ArtifactStore, error) {
	switch cfg.Backend {
	case "local":
		if cfg.LocalDir == "" {
			return nil, fmt.Errorf("LocalDir required for local backend")
		}
		return NewLocalStore(cfg.LocalDir, cfg.Prefix)
	case "bucket":
		if cfg.BucketURL == "" {
			return nil, fmt.Errorf("BucketURL required for bucket backend")
		}
		return NewBucketStore(ctx, cfg.BucketURL, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
