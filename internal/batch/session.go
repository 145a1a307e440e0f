package batch

import (
	"context"
	"errors"
	"sync"

	"github.com/mosaicops/mosaic-merger/internal/grouping"
	"github.com/mosaicops/mosaic-merger/internal/metrics"
	"github.com/mosaicops/mosaic-merger/internal/source"
)

// ErrBatchRunning is returned when a run is requested while another batch of
// the same session is still in flight.
var ErrBatchRunning = errors.New("batch already running")

// ErrNoSelection is returned when Run is called before Select.
var ErrNoSelection = errors.New("no files selected")

// Session owns the state of one batch lifecycle: the current group index and
// the last result. A new selection fully resets prior state; only one batch
// may run at a time.
type Session struct {
	runner *Runner

	mu      sync.Mutex
	running bool
	index   *grouping.Index
	last    *Result
}

// NewSession creates a session around the given runner.
func NewSession(runner *Runner) *Session {
	return &Session{runner: runner}
}

// Select replaces any prior selection with a fresh index built from files.
// The previous result is discarded.
func (s *Session) Select(files []source.RawFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrBatchRunning
	}

	idx := grouping.NewIndex()
	idx.Accumulate(files)
	s.index = idx
	s.last = nil

	if m := metrics.Get(); m != nil {
		m.AddFilesSelected(float64(len(files)))
		m.SetGroupsComplete(float64(len(idx.ValidGroups())))
		m.SetGroupsIncomplete(float64(idx.IncompleteCount()))
	}
	return nil
}

// ValidGroups exposes the current selection's complete groups.
func (s *Session) ValidGroups() []grouping.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	return s.index.ValidGroups()
}

// Run executes the batch over the current selection's valid groups.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrBatchRunning
	}
	if s.index == nil {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	groups := s.index.ValidGroups()
	incomplete := s.index.IncompleteCount()
	s.running = true
	s.mu.Unlock()

	res, err := s.runner.Run(ctx, groups)
	res.Incomplete = incomplete

	s.mu.Lock()
	s.running = false
	s.last = res
	s.mu.Unlock()

	return res, err
}

// Last returns the most recent result, or nil.
func (s *Session) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Reset discards the selection and result.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrBatchRunning
	}
	s.index = nil
	s.last = nil
	return nil
}
