package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalSource reads image files from a local directory.
type LocalSource struct {
	basePath string
	log      *slog.Logger
}

// NewLocalSource creates a new local filesystem source.
func NewLocalSource(basePath string) (*LocalSource, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid local path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local path %s is not a directory", basePath)
	}

	return &LocalSource{
		basePath: basePath,
		log:      slog.With("component", "source"),
	}, nil
}

// List implements FileSource.List for local directories. WalkDir yields
// entries in lexical order, which defines the arrival order of the batch.
func (s *LocalSource) List(ctx context.Context) ([]RawFile, error) {
	var files []RawFile

	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if !IsImageFile(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read file %s: %w", path, err)
		}

		files = append(files, RawFile{
			Name: filepath.Base(path),
			Data: data,
			Seq:  len(files),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	s.log.Info("selected files", "path", s.basePath, "count", len(files))
	return files, nil
}

// Close is a no-op for local sources.
func (s *LocalSource) Close() error {
	return nil
}
