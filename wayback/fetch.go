package wayback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultUserAgent identifies the archiver to the web archive.
const DefaultUserAgent = "chronovista/1.0 (personal archive recovery; +https://github.com/aucontraire/chronovista-sub003)"

// defaultRequestTimeout is the per-attempt HTTP timeout.
const defaultRequestTimeout = 30 * time.Second

// defaultBackoff is the fixed sleep schedule between retry attempts, indexed
// by how many attempts have already failed.
var defaultBackoff = []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}

// maxFetchAttempts bounds retries on transient transport failures.
const maxFetchAttempts = 3

// Fetcher retrieves the HTML body of an archived snapshot URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches snapshots over HTTPS with bounded retries. Each attempt
// first acquires a slot from the shared rate limiter; timeouts and connect
// errors sleep through the fixed backoff schedule and retry, while any other
// failure aborts immediately.
type HTTPFetcher struct {
	client    *http.Client
	limiter   RateLimiter
	userAgent string
	backoff   []time.Duration

	// sleep is indirected so tests can observe the schedule without
	// waiting it out.
	sleep func(ctx context.Context, d time.Duration) error
}

// FetcherOption customizes an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRequestTimeout overrides the per-attempt HTTP timeout.
func WithRequestTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithBackoffSchedule overrides the sleep schedule between retries.
func WithBackoffSchedule(schedule []time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if len(schedule) > 0 {
			f.backoff = schedule
		}
	}
}

// withSleep replaces the inter-attempt sleep; test hook.
func withSleep(sleep func(ctx context.Context, d time.Duration) error) FetcherOption {
	return func(f *HTTPFetcher) { f.sleep = sleep }
}

// NewHTTPFetcher builds a fetcher around the shared rate limiter. A nil
// limiter is a construction-time misconfiguration and the only hard failure
// in the fetch path.
func NewHTTPFetcher(limiter RateLimiter, opts ...FetcherOption) (*HTTPFetcher, error) {
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}

	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: defaultRequestTimeout,
			// Redirects are followed; wayback replay URLs redirect to the
			// nearest capture.
		},
		limiter:   limiter,
		userAgent: DefaultUserAgent,
		backoff:   defaultBackoff,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch retrieves the snapshot body, retrying timeouts and connect errors up
// to maxFetchAttempts total attempts. Exhausted retries and non-transient
// failures both surface as an error; callers degrade that to "no data".
func (f *HTTPFetcher) Fetch(ctx context.Context, snapshotURL string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			delay := f.backoff[min(attempt-1, len(f.backoff)-1)]
			log.Debug().
				Str("url", snapshotURL).
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Msg("Retrying snapshot fetch")
			if err := f.sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		if err := f.limiter.Acquire(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		body, err := f.fetchOnce(ctx, snapshotURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isTransient(err) {
			log.Debug().Err(err).Str("url", snapshotURL).Msg("Non-transient fetch failure, aborting")
			return "", err
		}
	}

	log.Debug().Err(lastErr).Str("url", snapshotURL).Msg("Snapshot fetch retries exhausted")
	return "", fmt.Errorf("fetch retries exhausted: %w", lastErr)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, snapshotURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// isTransient reports whether a fetch failure is worth retrying: connect and
// read timeouts plus connection-level errors. Everything else aborts the
// snapshot.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || errors.Is(urlErr.Err, io.EOF)
	}

	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
