// Package report builds the downstream deliverables for a finished batch:
// a zip archive of the merged images and an xlsx summary embedding them.
package report

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zip"

	"github.com/mosaicops/mosaic-merger/internal/mosaic"
)

// Archive packages the merged artifacts into a single zip blob, one entry
// per artifact, named by the artifact's file name.
func Archive(artifacts []mosaic.MergedArtifact) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, art := range artifacts {
		entry, err := w.Create(art.FileName)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("create archive entry %s: %w", art.FileName, err)
		}
		if _, err := entry.Write(art.Data); err != nil {
			w.Close()
			return nil, fmt.Errorf("write archive entry %s: %w", art.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
