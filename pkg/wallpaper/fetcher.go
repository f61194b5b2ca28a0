package wallpaper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher downloads the first candidate that yields JPEG bytes.
type Fetcher struct {
	client      *http.Client
	log         *ActivityLog
	pause       time.Duration
	maxAttempts int
	maxBytes    int64
}

// NewFetcher creates a Fetcher. A nil client uses NewHTTPClient.
func NewFetcher(client *http.Client, log *ActivityLog, pause time.Duration) *Fetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Fetcher{
		client:      client,
		log:         log,
		pause:       pause,
		maxAttempts: MaxAttempts,
		maxBytes:    MaxImageBytes,
	}
}

// Fetch walks the candidates in the given order, up to maxAttempts passes, and returns the
// first body starting with the JPEG marker along with the URL it came from.
// Consecutive requests are spaced by the configured pause; the first one is not delayed.
func (f *Fetcher) Fetch(ctx context.Context, candidates []string) ([]byte, string, error) {
	if len(candidates) == 0 {
		return nil, "", ErrNoSources
	}

	limit := rate.Inf
	if f.pause > 0 {
		limit = rate.Every(f.pause)
	}
	pacer := rate.NewLimiter(limit, 1)

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		for _, url := range candidates {
			if err := pacer.Wait(ctx); err != nil {
				return nil, "", fmt.Errorf("download interrupted: %w", err)
			}

			f.log.Infof("Fetching image from %s (attempt %d)", url, attempt)
			data, err := f.fetchOne(ctx, url)
			if err != nil {
				f.log.Warnf("Download from %s failed (attempt %d): %v", url, attempt, err)
				continue
			}
			f.log.Infof("Got JPEG from %s", url)
			return data, url, nil
		}
	}

	return nil, "", fmt.Errorf("%w after %d attempts over %d sources", ErrNoValidImage, f.maxAttempts, len(candidates))
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}
	if !isJPEG(data) {
		return nil, fmt.Errorf("response is not a valid JPEG")
	}
	return data, nil
}

// isJPEG reports whether data carries the JPEG start-of-image marker.
func isJPEG(data []byte) bool {
	return len(data) > len(jpegMagic) && bytes.HasPrefix(data, jpegMagic)
}
