// Package runner drives batch recovery of video and channel metadata across
// archived snapshots.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aucontraire/chronovista-sub003/model/recovery"
)

// defaultConcurrency bounds parallel video recoveries. The shared rate
// limiter still serializes actual archive requests.
const defaultConcurrency = 4

// SnapshotSource discovers archived captures for a video or channel.
// *wayback.CDXClient satisfies it.
type SnapshotSource interface {
	VideoSnapshots(ctx context.Context, videoID string) ([]recovery.Snapshot, error)
	ChannelSnapshots(ctx context.Context, channelID string) ([]recovery.Snapshot, error)
}

// MetadataParser extracts metadata from a single snapshot.
// *wayback.PageParser satisfies it.
type MetadataParser interface {
	ExtractMetadata(ctx context.Context, snapshot recovery.Snapshot) *recovery.RecoveredVideoData
	ExtractChannelMetadata(ctx context.Context, snapshot recovery.Snapshot, expectedChannelID string) *recovery.RecoveredChannelData
}

// Runner walks a video's snapshots newest-first until one yields data. It
// holds no mutable state and may run recoveries concurrently.
type Runner struct {
	source      SnapshotSource
	parser      MetadataParser
	concurrency int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithConcurrency bounds how many videos are recovered in parallel.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New builds a Runner over a snapshot source and a parser.
func New(source SnapshotSource, parser MetadataParser, opts ...Option) (*Runner, error) {
	if source == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}
	if parser == nil {
		return nil, fmt.Errorf("metadata parser is required")
	}
	r := &Runner{
		source:      source,
		parser:      parser,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// VideoResult is the outcome of recovering one video.
type VideoResult struct {
	VideoID        string
	Data           *recovery.RecoveredVideoData
	SnapshotsTried int
	Err            error
}

// Recovered reports whether any metadata was found.
func (r VideoResult) Recovered() bool {
	return r.Err == nil && r.Data.HasData()
}

// RunReport aggregates a batch recovery run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []VideoResult
}

// RecoveredCount returns how many videos yielded metadata.
func (r *RunReport) RecoveredCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Recovered() {
			n++
		}
	}
	return n
}

// RecoverVideos recovers metadata for each video ID, up to the configured
// concurrency in parallel. Individual failures land in the per-video results;
// only context cancellation aborts the run.
func (r *Runner) RecoverVideos(ctx context.Context, videoIDs []string) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]VideoResult, len(videoIDs)),
	}

	log.Info().
		Str("run_id", report.RunID).
		Int("video_count", len(videoIDs)).
		Int("concurrency", r.concurrency).
		Msg("Starting batch video recovery")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, videoID := range videoIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[i] = r.recoverVideo(gctx, videoID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now()

	log.Info().
		Str("run_id", report.RunID).
		Int("recovered", report.RecoveredCount()).
		Int("total", len(videoIDs)).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Batch video recovery finished")

	return report, nil
}

// recoverVideo tries a video's snapshots newest-first: the last capture
// before removal usually carries the most complete metadata.
func (r *Runner) recoverVideo(ctx context.Context, videoID string) VideoResult {
	result := VideoResult{VideoID: videoID}

	snapshots, err := r.source.VideoSnapshots(ctx, videoID)
	if err != nil {
		result.Err = fmt.Errorf("snapshot discovery failed: %w", err)
		return result
	}
	if len(snapshots) == 0 {
		result.Data = &recovery.RecoveredVideoData{}
		return result
	}

	for i := len(snapshots) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			return result
		}

		snap := snapshots[i]
		result.SnapshotsTried++
		data := r.parser.ExtractMetadata(ctx, snap)
		if data.HasData() {
			log.Debug().
				Str("video_id", videoID).
				Str("snapshot", snap.Timestamp).
				Int("snapshots_tried", result.SnapshotsTried).
				Msg("Video metadata recovered")
			result.Data = data
			return result
		}
	}

	log.Debug().
		Str("video_id", videoID).
		Int("snapshots_tried", result.SnapshotsTried).
		Msg("No snapshot yielded video metadata")
	result.Data = &recovery.RecoveredVideoData{}
	return result
}

// RecoverChannel recovers channel metadata, trying snapshots newest-first.
// Snapshots discarded by cross-validation are skipped, not fatal.
func (r *Runner) RecoverChannel(ctx context.Context, channelID string) (*recovery.RecoveredChannelData, error) {
	snapshots, err := r.source.ChannelSnapshots(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("snapshot discovery failed: %w", err)
	}

	for i := len(snapshots) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data := r.parser.ExtractChannelMetadata(ctx, snapshots[i], channelID)
		if data == nil {
			// Wrong channel's page; try the next capture.
			continue
		}
		if data.HasData() {
			return data, nil
		}
	}

	return &recovery.RecoveredChannelData{}, nil
}
