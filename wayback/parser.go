package wayback

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aucontraire/chronovista-sub003/model/recovery"
)

// PageParser is the public entry point of the extraction engine. It composes
// the retrying fetcher, the removal classifier, and the extraction strategy
// chains, and guarantees a non-panicking, always-populated (possibly empty)
// result for every recoverable condition. The parser holds no mutable state
// and is safe for concurrent use across snapshots; the shared rate limiter
// inside the fetcher is its only blocking resource.
type PageParser struct {
	fetcher  Fetcher
	renderer Renderer
}

// ParserOption customizes a PageParser.
type ParserOption func(*PageParser)

// WithRenderer installs a browser-rendering fallback for pages where neither
// JSON nor meta-tag extraction recovers anything.
func WithRenderer(r Renderer) ParserOption {
	return func(p *PageParser) {
		if r != nil {
			p.renderer = r
		}
	}
}

// NewPageParser builds a parser around the given fetcher. A nil fetcher is a
// construction-time misconfiguration, the only hard failure the parser
// surfaces.
func NewPageParser(fetcher Fetcher, opts ...ParserOption) (*PageParser, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	p := &PageParser{
		fetcher:  fetcher,
		renderer: NewNoopRenderer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ExtractMetadata fetches one video snapshot and recovers whatever metadata
// the page still carries. It never returns an error for recoverable
// conditions: fetch failures, removal notices, and malformed pages all
// degrade to an all-unset record carrying only the snapshot timestamp.
// Repeated calls for the same snapshot are idempotent.
func (p *PageParser) ExtractMetadata(ctx context.Context, snapshot recovery.Snapshot) *recovery.RecoveredVideoData {
	empty := &recovery.RecoveredVideoData{SnapshotTimestamp: snapshot.Timestamp}

	html, err := p.fetcher.Fetch(ctx, snapshot.WaybackURL)
	if err != nil {
		log.Debug().
			Err(err).
			Str("snapshot", snapshot.Timestamp).
			Msg("Snapshot fetch produced no data")
		return empty
	}

	data := extractVideoMetadata(html, snapshot.Timestamp)
	if data.HasData() {
		log.Debug().
			Str("snapshot", snapshot.Timestamp).
			Bool("has_title", data.Title != nil).
			Bool("has_description", data.Description != nil).
			Msg("Recovered video metadata from snapshot")
		return data
	}

	// Last resort: a rendering backend, when one is plugged in. Render
	// failures and timeouts stay terminal here, never propagated.
	if removed, _ := IsRemovalNotice(html); !removed {
		if rendered, err := p.renderer.Render(ctx, snapshot.WaybackURL); err == nil && rendered != "" {
			if data := extractVideoMetadata(rendered, snapshot.Timestamp); data.HasData() {
				return data
			}
		}
	}

	return empty
}

// ExtractChannelMetadata fetches one channel snapshot and recovers whatever
// metadata it carries. A nil result means the snapshot was discarded because
// its embedded channel identity disagreed with expectedChannelID; an all-unset
// record means the snapshot simply yielded no data.
func (p *PageParser) ExtractChannelMetadata(ctx context.Context, snapshot recovery.Snapshot, expectedChannelID string) *recovery.RecoveredChannelData {
	html, err := p.fetcher.Fetch(ctx, snapshot.WaybackURL)
	if err != nil {
		log.Debug().
			Err(err).
			Str("snapshot", snapshot.Timestamp).
			Str("channel_id", expectedChannelID).
			Msg("Channel snapshot fetch produced no data")
		return &recovery.RecoveredChannelData{SnapshotTimestamp: snapshot.Timestamp}
	}

	return extractChannelMetadata(html, snapshot.Timestamp, expectedChannelID)
}
