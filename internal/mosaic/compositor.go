// Package mosaic composites a complete group of four images into a single
// 2x2 mosaic JPEG.
package mosaic

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sort"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/mosaicops/mosaic-merger/internal/grouping"
	"github.com/mosaicops/mosaic-merger/internal/source"
)

// DefaultQuality is the JPEG encode quality for merged artifacts.
const DefaultQuality = 95

// MergedArtifact is the result of compositing one valid group.
type MergedArtifact struct {
	GroupKey  string
	FileName  string // "<groupKey>-merged.jpg"
	Data      []byte
	Width     int
	Height    int
	Checksum  string // "sha256:<hex>" over Data
	CreatedAt time.Time
}

// Compositor renders complete groups into 2x2 mosaic JPEGs.
type Compositor struct {
	quality int
	log     *slog.Logger
}

// New creates a compositor. A quality outside 1..100 falls back to
// DefaultQuality.
func New(quality int) *Compositor {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Compositor{
		quality: quality,
		log:     slog.With("component", "compositor"),
	}
}

// Composite renders exactly four files into one mosaic artifact.
//
// Files are stable-sorted ascending by order key, so order-key ties (for
// example all defaulting to 0) keep their input order. All four decodes run
// concurrently; the first failure abandons the group. Each quadrant is drawn
// at exactly tileW x tileH, where the tile size is the maximum width and
// height across the group; smaller images stretch to fill without aspect
// correction.
func (c *Compositor) Composite(ctx context.Context, groupKey string, files []source.RawFile) (*MergedArtifact, error) {
	if len(files) != grouping.GroupSize {
		return nil, fmt.Errorf("group %s has %d files, want %d", groupKey, len(files), grouping.GroupSize)
	}

	sorted := make([]source.RawFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return grouping.OrderKey(sorted[i].Name) < grouping.OrderKey(sorted[j].Name)
	})

	decoded, err := c.decodeAll(ctx, sorted)
	if err != nil {
		return nil, err
	}

	tileW, tileH := tileSize(decoded)
	canvas := imaging.New(2*tileW, 2*tileH, color.NRGBA{A: 255})

	for i, img := range decoded {
		tile := img
		if b := img.Bounds(); b.Dx() != tileW || b.Dy() != tileH {
			tile = imaging.Resize(img, tileW, tileH, imaging.Lanczos)
		}
		// Row-major quadrants: 0 top-left, 1 top-right, 2 bottom-left,
		// 3 bottom-right.
		pt := image.Pt((i%2)*tileW, (i/2)*tileH)
		canvas = imaging.Paste(canvas, tile, pt)
		decoded[i] = nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, &EncodeError{GroupKey: groupKey, Err: err}
	}

	data := buf.Bytes()
	sum := sha256.Sum256(data)

	c.log.Debug("composited group",
		"group", groupKey,
		"tile_width", tileW,
		"tile_height", tileH,
		"bytes", len(data),
	)

	return &MergedArtifact{
		GroupKey:  groupKey,
		FileName:  groupKey + "-merged.jpg",
		Data:      data,
		Width:     2 * tileW,
		Height:    2 * tileH,
		Checksum:  "sha256:" + hex.EncodeToString(sum[:]),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// decodeAll decodes the four files concurrently. On failure the partially
// decoded images go out of scope with the call; nothing outlives it.
func (c *Compositor) decodeAll(ctx context.Context, files []source.RawFile) ([]image.Image, error) {
	decoded := make([]image.Image, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Decode(bytes.NewReader(f.Data))
			if err != nil {
				return &DecodeError{File: f.Name, Err: err}
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decoded, nil
}

// tileSize returns the cell dimensions for the mosaic: the largest width and
// height across the decoded images.
func tileSize(images []image.Image) (w, h int) {
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() > w {
			w = b.Dx()
		}
		if b.Dy() > h {
			h = b.Dy()
		}
	}
	return w, h
}
