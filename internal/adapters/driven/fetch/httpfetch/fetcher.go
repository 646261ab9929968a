package httpfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.RepositoryFetcher = (*Fetcher)(nil)

const (
	// DefaultTimeout bounds a single request including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the sustained rate of request starts.
	DefaultRequestsPerSecond = 8.0

	// DefaultBurst is how many requests may start back to back.
	DefaultBurst = 4

	// DefaultMaxBodyBytes caps a repository document.
	DefaultMaxBodyBytes int64 = 32 << 20

	// DefaultUserAgent identifies requests to source servers.
	DefaultUserAgent = "repocache"
)

// ErrBodyTooLarge is returned when a document exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("repository document too large")

// Config holds Fetcher settings. Zero values select the defaults.
type Config struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxBodyBytes      int64
	UserAgent         string

	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// Fetcher downloads repository documents.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	maxBytes  int64
	userAgent string
}

// repositoryHeader holds the fields lifted out of a document.
type repositoryHeader struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	SourceURL  string `json:"sourceURL"`
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Fetcher{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxBytes:  cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads and parses the document at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.Repository, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, u.Redacted())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBytes)
	}

	return parseRepository(body, rawURL)
}

// parseRepository validates that body is a JSON object and lifts out the
// repository's self-declared name and identifier. The payload is kept as is.
func parseRepository(body []byte, fetchedFrom string) (*domain.Repository, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("decode repository: document is not a JSON object")
	}

	var header repositoryHeader
	if err := json.Unmarshal(trimmed, &header); err != nil {
		return nil, fmt.Errorf("decode repository: %w", err)
	}

	sourceURL := header.SourceURL
	if sourceURL == "" {
		sourceURL = fetchedFrom
	}

	return &domain.Repository{
		Name:       header.Name,
		Identifier: header.Identifier,
		SourceURL:  sourceURL,
		Payload:    json.RawMessage(trimmed),
	}, nil
}
