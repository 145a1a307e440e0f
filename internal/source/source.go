package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// RawFile is a single user-selected image file: an opaque named byte blob.
// Seq is the arrival index within the selection; it is assigned by the
// source and never changes afterwards.
type RawFile struct {
	Name string
	Data []byte
	Seq  int
}

// FileSource supplies one flat batch of image files.
//
// List returns the files in arrival order. For directory sources arrival
// order is the lexical walk order; for bucket sources it is the backend's
// listing order.
type FileSource interface {
	List(ctx context.Context) ([]RawFile, error)
	Close() error
}

// Config selects and parameterizes a file source backend.
type Config struct {
	Mode      string // "local" | "bucket"
	LocalPath string // directory for local mode
	BucketURL string // file://, gs:// or s3:// URL for bucket mode
	Prefix    string // key prefix within the bucket
}

var ErrInvalidSourceMode = errors.New("invalid source mode")

// NewFileSource constructs a file source based on the configured mode.
func NewFileSource(ctx context.Context, cfg Config) (FileSource, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalSource(cfg.LocalPath)
	case "bucket":
		return NewBucketSource(ctx, cfg.BucketURL, cfg.Prefix)
	default:
		return nil, ErrInvalidSourceMode
	}
}

// imageExtensions lists the extensions the decoder handles.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageFile reports whether the decoder supports the file's extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
