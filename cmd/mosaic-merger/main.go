package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mosaicops/mosaic-merger/internal/batch"
	"github.com/mosaicops/mosaic-merger/internal/config"
	"github.com/mosaicops/mosaic-merger/internal/logging"
	"github.com/mosaicops/mosaic-merger/internal/metrics"
	"github.com/mosaicops/mosaic-merger/internal/mosaic"
	"github.com/mosaicops/mosaic-merger/internal/report"
	"github.com/mosaicops/mosaic-merger/internal/source"
	"github.com/mosaicops/mosaic-merger/internal/storage"
)

// Version information (set via ldflags)
var (
	Version = "v0.1.0"
	GitSHA  = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging)
	log := logging.Component("main")
	log.Info("mosaic merger starting", "version", Version, "git_sha", GitSHA)

	if cfg.Metrics.Enabled {
		metrics.Init("mosaic_merger")
		go func() {
			if err := metrics.Serve(cfg.Metrics.Address); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown handler
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		log.Info("received signal", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		if ctx.Err() != nil {
			log.Info("shutdown before batch completed")
			return
		}
		log.Error("merger failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	src, err := source.NewFileSource(ctx, source.Config{
		Mode:      cfg.Source.Mode,
		LocalPath: cfg.Source.LocalPath,
		BucketURL: cfg.Source.BucketURL,
		Prefix:    cfg.Source.Prefix,
	})
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	defer src.Close()

	store, err := storage.NewArtifactStore(ctx, storage.Config{
		Backend:   cfg.Output.Backend,
		LocalDir:  cfg.Output.LocalDir,
		BucketURL: cfg.Output.BucketURL,
		Prefix:    cfg.Output.Prefix,
	})
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	files, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	progress := func(completed, total int) {
		log.Info("progress", "completed", completed, "total", total)
	}
	runner := batch.NewRunner(
		mosaic.New(cfg.Merge.Quality),
		time.Duration(cfg.Merge.GroupTimeoutMs)*time.Millisecond,
		progress,
	)
	session := batch.NewSession(runner)

	if err := session.Select(files); err != nil {
		return fmt.Errorf("select files: %w", err)
	}
	if len(session.ValidGroups()) == 0 {
		log.Warn("no complete groups in selection", "files", len(files))
		return nil
	}

	res, err := session.Run(ctx)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	if err := publish(ctx, cfg, store, res); err != nil {
		return err
	}

	for _, f := range res.Failures {
		log.Warn("group not merged", "group", f.GroupKey, "error", f.Err)
	}
	log.Info("batch published",
		"batch_id", res.BatchID,
		"merged", len(res.Artifacts),
		"failed", len(res.Failures),
		"incomplete", res.Incomplete,
	)
	return nil
}

// publish writes the artifacts, reports, and manifest for a finished batch.
func publish(ctx context.Context, cfg config.Config, store storage.ArtifactStore, res *batch.Result) error {
	ref := storage.BatchRef{BatchID: res.BatchID}

	for _, art := range res.Artifacts {
		if err := store.WriteFile(ctx, ref, art.FileName, art.Data); err != nil {
			return fmt.Errorf("write artifact %s: %w", art.FileName, err)
		}
	}

	if cfg.Report.Archive && len(res.Artifacts) > 0 {
		data, err := report.Archive(res.Artifacts)
		if err != nil {
			return fmt.Errorf("build archive: %w", err)
		}
		if err := store.WriteFile(ctx, ref, "merged.zip", data); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
	}

	if cfg.Report.Spreadsheet {
		data, err := report.Spreadsheet(res)
		if err != nil {
			return fmt.Errorf("build spreadsheet: %w", err)
		}
		if err := store.WriteFile(ctx, ref, "summary.xlsx", data); err != nil {
			return fmt.Errorf("write spreadsheet: %w", err)
		}
	}

	return store.WriteManifest(ctx, ref, buildManifest(res))
}

// buildManifest creates the batch manifest from a result.
func buildManifest(res *batch.Result) *storage.Manifest {
	m := &storage.Manifest{
		Batch: storage.BatchInfo{
			ID:         res.BatchID,
			Groups:     len(res.Artifacts) + len(res.Failures),
			Incomplete: res.Incomplete,
			Started:    res.Started,
			Finished:   res.Finished,
		},
		Producer: storage.ProducerInfo{
			Name:    "mosaic-merger",
			Version: Version,
			GitSHA:  GitSHA,
		},
		CreatedAt: time.Now().UTC(),
	}

	for _, art := range res.Artifacts {
		m.Artifacts = append(m.Artifacts, storage.ArtifactInfo{
			GroupKey: art.GroupKey,
			File:     art.FileName,
			Checksum: art.Checksum,
			ByteSize: int64(len(art.Data)),
			Width:    art.Width,
			Height:   art.Height,
		})
	}
	for _, f := range res.Failures {
		m.Failures = append(m.Failures, storage.FailureInfo{
			GroupKey: f.GroupKey,
			Error:    f.Err.Error(),
		})
	}
	return m
}
