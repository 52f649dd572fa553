package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// maxDrain bounds how much of a discarded response body is read so the
// connection can be reused.
const maxDrain = 64 << 10

// Downloader implements domain.BinaryFetcher over HTTP. Redirects are
// followed by hand so the chain length can be bounded and reported.
type Downloader struct {
	client       *http.Client
	baseURL      string
	maxRedirects int
	retries      int
	newBackOff   func() backoff.BackOff
	logger       *zap.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient uses a copy of c for requests. Its redirect policy is replaced.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) { d.client = c }
}

// WithBaseURL sets the release download root.
func WithBaseURL(u string) Option {
	return func(d *Downloader) { d.baseURL = u }
}

// WithMaxRedirects bounds the number of redirects followed per attempt.
func WithMaxRedirects(n int) Option {
	return func(d *Downloader) { d.maxRedirects = n }
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(d *Downloader) { d.retries = n }
}

// WithBackOff sets the retry delay policy.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(d *Downloader) { d.newBackOff = f }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(d *Downloader) {
		if l == nil {
			l = zap.NewNop()
		}
		d.logger = l
	}
}

// New creates a Downloader with defaults from the domain package.
func New(opts ...Option) *Downloader {
	d := &Downloader{
		client:       &http.Client{Timeout: 10 * time.Minute},
		baseURL:      domain.DefaultDownloadBase,
		maxRedirects: domain.DefaultMaxRedirects,
		retries:      domain.DefaultRetries,
		newBackOff:   defaultBackOff,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	client := *d.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	d.client = &client
	return d
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// DownloadURL is <base>/<version>/ooxml-validator-<rid>[.exe].
func (d *Downloader) DownloadURL(version string, rid domain.RuntimeID) string {
	return strings.TrimRight(d.baseURL, "/") + "/" + version + "/" + rid.ArtifactName()
}

// Fetch downloads the release binary for rid into dest and marks it
// executable. The file is written under a temporary name and renamed into
// place, so dest never holds a partial download.
func (d *Downloader) Fetch(ctx context.Context, version string, rid domain.RuntimeID, dest string) (*domain.FetchResult, error) {
	src := d.DownloadURL(version, rid)

	var result *domain.FetchResult
	op := func() error {
		res, err := d.fetchOnce(ctx, src, dest)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(&domain.CancelledError{Op: "download", Err: ctx.Err()})
			}
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), uint64(d.retries)), ctx)
	notify := func(err error, wait time.Duration) {
		d.logger.Warn("Download attempt failed, retrying",
			zap.String("url", src), zap.Duration("backoff", wait), zap.Error(err))
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		var cancelled *domain.CancelledError
		if ctx.Err() != nil && !errors.As(err, &cancelled) {
			return nil, &domain.CancelledError{Op: "download", Err: ctx.Err()}
		}
		return nil, err
	}

	result.Runtime = rid
	result.Version = version
	result.URL = src
	return result, nil
}

func (d *Downloader) fetchOnce(ctx context.Context, src, dest string) (*domain.FetchResult, error) {
	current := src
	for redirects := 0; ; redirects++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		d.logger.Info("GET", zap.String("url", current))
		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}

		location := resp.Header.Get("Location")
		if isRedirect(resp.StatusCode) && location != "" {
			discard(resp)
			if redirects >= d.maxRedirects {
				return nil, &domain.TooManyRedirectsError{URL: src, Limit: d.maxRedirects}
			}
			next, err := resolve(current, location)
			if err != nil {
				return nil, err
			}
			d.logger.Debug("Redirect", zap.Int("status", resp.StatusCode), zap.String("location", next))
			current = next
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			discard(resp)
			return nil, &domain.HTTPError{StatusCode: resp.StatusCode, URL: current}
		}

		res, err := writeExecutable(resp.Body, dest)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		d.logger.Info("Downloaded", zap.String("path", dest), zap.Int64("bytes", res.Bytes))
		return res, nil
	}
}

// writeExecutable streams body into a temp file next to dest, then chmods
// and renames it into place. Any failure removes the temp file.
func writeExecutable(body io.Reader, dest string) (_ *domain.FetchResult, err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), body)
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", dest, err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0755); err != nil {
		return nil, fmt.Errorf("marking %s executable: %w", dest, err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("moving binary into place: %w", err)
	}

	return &domain.FetchResult{
		Path:   dest,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
		Bytes:  n,
	}, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// resolve interprets location relative to the URL that returned it.
func resolve(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", current, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing redirect location %q: %w", location, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	resp.Body.Close()
}

// retryable reports whether a failed attempt may succeed when repeated:
// server-side errors, rate limiting and network failures. Client errors,
// redirect overflow and local filesystem failures are permanent.
func retryable(err error) bool {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	var redirErr *domain.TooManyRedirectsError
	if errors.As(err, &redirErr) {
		return false
	}
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
