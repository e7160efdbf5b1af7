package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
)

const maxBackoff = 5 * time.Second

// ErrSourceUnavailable wraps every failure to reach or read a dataset source.
var ErrSourceUnavailable = errors.New("source unavailable")

// FetchConfig controls where datasets come from and how downloads are cached.
type FetchConfig struct {
	BaseURL  string
	DataDir  string
	CacheTTL time.Duration // zero keeps cached files forever, negative always refetches
	Timeout  time.Duration
	Retries  int
}

// Fetcher resolves a source name to a readable local file, downloading and
// caching remote sources under DataDir.
type Fetcher struct {
	cfg     FetchConfig
	client  *http.Client
	logger  *slog.Logger
	metrics *observability.Metrics
	backoff time.Duration
}

// NewFetcher creates a Fetcher with an http.Client bounded by cfg.Timeout.
func NewFetcher(cfg FetchConfig, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "fetcher"),
		metrics: metrics,
		backoff: 500 * time.Millisecond,
	}
}

// Resolve returns a local path for source. Absolute paths and paths starting
// with "./" or "../" are used as-is; URLs and bare names are downloaded.
func (f *Fetcher) Resolve(ctx context.Context, source string) (string, error) {
	if isLocalPath(source) {
		if _, err := os.Stat(source); err != nil {
			return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return source, nil
	}

	remote, err := f.remoteURL(source)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(f.cfg.DataDir, cacheName(remote))

	if f.fresh(dest) {
		f.metrics.Downloads.WithLabelValues("cached").Inc()
		f.logger.Debug("using cached dataset", "path", dest)
		return dest, nil
	}

	if err := os.MkdirAll(f.cfg.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	if err := f.downloadWithRetry(ctx, remote, dest); err != nil {
		f.metrics.Downloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	f.metrics.Downloads.WithLabelValues("fetched").Inc()
	f.logger.Info("dataset downloaded", "url", remote, "path", dest)
	return dest, nil
}

func (f *Fetcher) remoteURL(source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source, nil
	}
	if f.cfg.BaseURL == "" {
		return "", fmt.Errorf("%w: %q is not a local path and no base URL is configured", ErrSourceUnavailable, source)
	}
	return strings.TrimRight(f.cfg.BaseURL, "/") + "/" + strings.TrimLeft(source, "/"), nil
}

// fresh reports whether a cached file exists and is younger than the TTL.
func (f *Fetcher) fresh(dest string) bool {
	info, err := os.Stat(dest)
	if err != nil || info.Size() == 0 {
		return false
	}
	if f.cfg.CacheTTL == 0 {
		return true
	}
	return domain.Clock().Since(info.ModTime()) < f.cfg.CacheTTL
}

func (f *Fetcher) downloadWithRetry(ctx context.Context, remote, dest string) error {
	backoff := f.backoff
	var err error
	for attempt := 0; attempt <= f.cfg.Retries; attempt++ {
		if attempt > 0 {
			f.logger.Warn("retrying download", "url", remote, "attempt", attempt, "error", err)
			if !retry.SleepWithContext(ctx, backoff) {
				return ctx.Err()
			}
			backoff = retry.NextBackoff(backoff, maxBackoff)
		}
		if err = f.download(ctx, remote, dest); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// download streams remote into a temp file beside dest and renames it into
// place, so a failed transfer never leaves a partial dataset behind.
func (f *Fetcher) download(ctx context.Context, remote, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", remote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", remote, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", dest, err)
	}
	success = true
	return nil
}

func isLocalPath(source string) bool {
	return filepath.IsAbs(source) ||
		strings.HasPrefix(source, "./") ||
		strings.HasPrefix(source, "../")
}

// cacheName derives the local file name from the last URL path segment.
func cacheName(remote string) string {
	u, err := url.Parse(remote)
	if err != nil || u.Path == "" {
		return sanitize(remote)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return sanitize(u.Host)
	}
	return name
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == ':' || r == '?' || r == '&' {
			return '_'
		}
		return r
	}, s)
}
