package batch

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/mosaicops/mosaic-merger/internal/mosaic"
	"github.com/mosaicops/mosaic-merger/internal/source"
)

func selection(t *testing.T, keys ...string) []source.RawFile {
	t.Helper()
	var files []source.RawFile
	for _, key := range keys {
		for i := 1; i <= 4; i++ {
			files = append(files, source.RawFile{
				Name: fmt.Sprintf("%s-%d.png", key, i),
				Data: pngBytes(t, color.NRGBA{R: 128, A: 255}),
				Seq:  len(files),
			})
		}
	}
	return files
}

func newTestSession() *Session {
	return NewSession(NewRunner(mosaic.New(mosaic.DefaultQuality), 0, nil))
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession()

	if _, err := s.Run(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Run before Select = %v, want ErrNoSelection", err)
	}

	if err := s.Select(selection(t, "A1", "B2")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got := len(s.ValidGroups()); got != 2 {
		t.Fatalf("ValidGroups = %d, want 2", got)
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(res.Artifacts))
	}
	if s.Last() != res {
		t.Error("Last should return the result of the previous run")
	}
}

func TestSessionSelectResetsPriorState(t *testing.T) {
	s := newTestSession()

	if err := s.Select(selection(t, "A1")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// A new selection supersedes the previous batch entirely.
	if err := s.Select(selection(t, "Z9")); err != nil {
		t.Fatalf("second Select failed: %v", err)
	}
	if s.Last() != nil {
		t.Error("Select should discard the prior result")
	}
	groups := s.ValidGroups()
	if len(groups) != 1 || groups[0].Key != "Z9" {
		t.Errorf("ValidGroups after reselect = %+v, want single Z9", groups)
	}
}

func TestSessionReset(t *testing.T) {
	s := newTestSession()
	if err := s.Select(selection(t, "A1")); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if s.ValidGroups() != nil {
		t.Error("ValidGroups after Reset should be empty")
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Run after Reset = %v, want ErrNoSelection", err)
	}
}

func TestSessionIncompleteCount(t *testing.T) {
	s := newTestSession()
	files := selection(t, "A1")
	files = append(files, source.RawFile{
		Name: "straggler-1.png",
		Data: pngBytes(t, color.NRGBA{A: 255}),
	})

	if err := s.Select(files); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Incomplete != 1 {
		t.Errorf("Incomplete = %d, want 1", res.Incomplete)
	}
}
