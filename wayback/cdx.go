package wayback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/aucontraire/chronovista-sub003/model/recovery"
)

const (
	// DefaultCDXEndpoint is the web archive's snapshot index API.
	DefaultCDXEndpoint = "https://web.archive.org/cdx/search/cdx"

	// defaultMaxSnapshots caps how many captures one lookup returns.
	defaultMaxSnapshots = 50

	// defaultSnapshotCacheSize bounds the per-URL result cache.
	defaultSnapshotCacheSize = 1000

	waybackReplayBase = "https://web.archive.org/web"
)

// CDXClient discovers archived captures of YouTube video and channel pages.
// Lookups are cached in an LRU cache keyed by target URL; the shared rate
// limiter throttles index queries alongside snapshot fetches.
type CDXClient struct {
	httpClient   *http.Client
	limiter      RateLimiter
	endpoint     string
	userAgent    string
	maxSnapshots int

	cache *lru.Cache[string, []recovery.Snapshot]
}

// CDXOption customizes a CDXClient.
type CDXOption func(*CDXClient)

// WithCDXEndpoint overrides the CDX API endpoint.
func WithCDXEndpoint(endpoint string) CDXOption {
	return func(c *CDXClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithMaxSnapshots caps how many captures one lookup returns.
func WithMaxSnapshots(n int) CDXOption {
	return func(c *CDXClient) {
		if n > 0 {
			c.maxSnapshots = n
		}
	}
}

// WithCDXUserAgent overrides the User-Agent header on index queries.
func WithCDXUserAgent(ua string) CDXOption {
	return func(c *CDXClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewCDXClient builds a snapshot discovery client around the shared rate
// limiter.
func NewCDXClient(limiter RateLimiter, opts ...CDXOption) (*CDXClient, error) {
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}

	cache, err := lru.New[string, []recovery.Snapshot](defaultSnapshotCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}

	c := &CDXClient{
		httpClient:   &http.Client{Timeout: defaultRequestTimeout},
		limiter:      limiter,
		endpoint:     DefaultCDXEndpoint,
		userAgent:    DefaultUserAgent,
		maxSnapshots: defaultMaxSnapshots,
		cache:        cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// VideoSnapshots lists archived captures of a video's watch page, oldest
// first.
func (c *CDXClient) VideoSnapshots(ctx context.Context, videoID string) ([]recovery.Snapshot, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID cannot be empty")
	}
	target := "https://www.youtube.com/watch?v=" + videoID
	return c.Snapshots(ctx, target)
}

// ChannelSnapshots lists archived captures of a channel page, oldest first.
func (c *CDXClient) ChannelSnapshots(ctx context.Context, channelID string) ([]recovery.Snapshot, error) {
	if _, ok := validChannelID(channelID); !ok {
		return nil, fmt.Errorf("invalid channel ID: %s", channelID)
	}
	target := "https://www.youtube.com/channel/" + channelID
	return c.Snapshots(ctx, target)
}

// Snapshots queries the CDX index for captures of target, filtered to
// successfully archived HTML pages. Results are cached per target URL.
func (c *CDXClient) Snapshots(ctx context.Context, target string) ([]recovery.Snapshot, error) {
	if cached, ok := c.cache.Get(target); ok {
		log.Debug().Str("target", target).Int("count", len(cached)).Msg("Using cached snapshot list")
		return cached, nil
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("url", target)
	query.Set("output", "json")
	query.Add("filter", "statuscode:200")
	query.Add("filter", "mimetype:text/html")
	query.Set("limit", fmt.Sprintf("%d", c.maxSnapshots))
	query.Set("fl", "timestamp,original,statuscode,mimetype")

	reqURL := c.endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create CDX request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CDX query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CDX query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CDX response: %w", err)
	}

	snapshots, err := parseCDXResponse(body)
	if err != nil {
		return nil, err
	}

	c.cache.Add(target, snapshots)

	log.Debug().
		Str("target", target).
		Int("count", len(snapshots)).
		Msg("Discovered snapshots via CDX")

	return snapshots, nil
}

// parseCDXResponse decodes the CDX JSON format: an array of rows where the
// first row names the fields requested via fl.
func parseCDXResponse(body []byte) ([]recovery.Snapshot, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CDX response: %w", err)
	}
	if len(rows) < 2 {
		// Header only or empty: no captures.
		return nil, nil
	}

	snapshots := make([]recovery.Snapshot, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		ts, original := row[0], row[1]
		if !validSnapshotTimestamp(ts) {
			continue
		}
		snapshots = append(snapshots, recovery.Snapshot{
			Timestamp:  ts,
			WaybackURL: fmt.Sprintf("%s/%s/%s", waybackReplayBase, ts, original),
		})
	}

	return snapshots, nil
}

// validSnapshotTimestamp checks the archive's 14-digit capture timestamp.
func validSnapshotTimestamp(ts string) bool {
	if len(ts) != 14 {
		return false
	}
	for i := 0; i < len(ts); i++ {
		if ts[i] < '0' || ts[i] > '9' {
			return false
		}
	}
	_, err := time.Parse("20060102150405", ts)
	return err == nil
}
