// Package batch drives the compositing pipeline over all complete groups of
// one file selection, isolating per-group failures.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mosaicops/mosaic-merger/internal/grouping"
	"github.com/mosaicops/mosaic-merger/internal/metrics"
	"github.com/mosaicops/mosaic-merger/internal/mosaic"
)

// ProgressFunc observes batch progress. It is invoked once per processed
// group, success or failure, with completed counting 1..total. It carries no
// backpressure signal.
type ProgressFunc func(completed, total int)

// Failure records one group that could not be composited.
type Failure struct {
	GroupKey string
	Err      error
}

// Result is the outcome of one batch run. It is superseded entirely by the
// next run.
type Result struct {
	BatchID    string
	Artifacts  []mosaic.MergedArtifact
	Failures   []Failure
	Incomplete int // groups excluded for cardinality != 4, informational only
	Started    time.Time
	Finished   time.Time
}

// Runner processes valid groups strictly one at a time. Sequential execution
// bounds peak memory: each group allocates a full-resolution output surface.
type Runner struct {
	comp       *mosaic.Compositor
	timeout    time.Duration // per-group deadline, 0 disables
	onProgress ProgressFunc
	log        *slog.Logger
}

// NewRunner creates a batch runner. onProgress may be nil.
func NewRunner(comp *mosaic.Compositor, timeout time.Duration, onProgress ProgressFunc) *Runner {
	return &Runner{
		comp:       comp,
		timeout:    timeout,
		onProgress: onProgress,
		log:        slog.With("component", "runner"),
	}
}

// Run composites every group in order. One group's failure never aborts the
// batch; failures are collected alongside successful artifacts. Cancellation
// is checked between groups: a cancelled run returns the partial Result and
// the context error.
func (r *Runner) Run(ctx context.Context, groups []grouping.Group) (*Result, error) {
	res := &Result{
		BatchID: uuid.New().String(),
		Started: time.Now().UTC(),
	}
	total := len(groups)
	log := r.log.With("batch_id", res.BatchID)

	log.Info("starting batch", "groups", total)

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			res.Finished = time.Now().UTC()
			return res, err
		}

		art, err := r.compositeGroup(ctx, g)
		if err != nil {
			log.Warn("group failed", "group", g.Key, "error", err)
			res.Failures = append(res.Failures, Failure{GroupKey: g.Key, Err: err})
			if m := metrics.Get(); m != nil {
				m.IncMergesFailed()
			}
		} else {
			res.Artifacts = append(res.Artifacts, *art)
			if m := metrics.Get(); m != nil {
				m.IncMergesSucceeded()
				m.ObserveArtifactBytes(float64(len(art.Data)))
			}
		}

		if r.onProgress != nil {
			r.onProgress(i+1, total)
		}
	}

	res.Finished = time.Now().UTC()
	log.Info("batch complete",
		"merged", len(res.Artifacts),
		"failed", len(res.Failures),
		"duration", res.Finished.Sub(res.Started).String(),
	)
	return res, nil
}

// compositeGroup runs one composite under the per-group deadline. Decoded
// surfaces live only inside this call; a timed-out or failed group releases
// them before the next group starts.
func (r *Runner) compositeGroup(ctx context.Context, g grouping.Group) (*mosaic.MergedArtifact, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	art, err := r.comp.Composite(ctx, g.Key, g.Files)
	if m := metrics.Get(); m != nil {
		m.ObserveMergeDuration(time.Since(start).Seconds())
	}
	return art, err
}
