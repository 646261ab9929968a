package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
)

// errNoSuchHost mimics a DNS failure for unknown URLs.
var errNoSuchHost = errors.New("dial tcp: lookup invalid.invalid: no such host")

// mockFetcher implements driven.RepositoryFetcher for testing.
// URLs not registered with ok() or fail() fail with errNoSuchHost.
type mockFetcher struct {
	mu      sync.Mutex
	docs    map[string]*domain.Repository
	errs    map[string]error
	calls   []string
	onFetch func(url string)

	// gate, when set, holds every fetch until it is closed or ctx ends.
	gate chan struct{}
	// started receives each URL as its fetch begins, if set.
	started chan string
	delay   time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

var _ driven.RepositoryFetcher = (*mockFetcher)(nil)

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		docs: make(map[string]*domain.Repository),
		errs: make(map[string]error),
	}
}

// ok registers a successful document for url and returns it.
func (m *mockFetcher) ok(url string) *domain.Repository {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := &domain.Repository{Name: "repo " + url, SourceURL: url, Payload: []byte(`{"apps":[]}`)}
	m.docs[url] = doc
	return doc
}

// fail registers an error for url.
func (m *mockFetcher) fail(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, url)
	m.errs[url] = err
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*domain.Repository, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, url)
	hook := m.onFetch
	m.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	if m.started != nil {
		m.started <- url
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[url]; err != nil {
		return nil, err
	}
	if doc, ok := m.docs[url]; ok {
		return doc, nil
	}
	return nil, errNoSuchHost
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockFetcher) calledURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := cur
		cur = cur.Add(step)
		return now
	}
}

// failingRefreshStore implements driven.RefreshStore and fails every write.
type failingRefreshStore struct {
	err error
}

var _ driven.RefreshStore = (*failingRefreshStore)(nil)

func (f *failingRefreshStore) RecordRefresh(_ context.Context, _ *domain.RefreshRecord) error {
	return f.err
}

func (f *failingRefreshStore) LastRefresh(_ context.Context, _ domain.RefreshKind) (time.Time, error) {
	return time.Time{}, f.err
}

func (f *failingRefreshStore) History(_ context.Context, _ domain.RefreshKind, _ int) ([]domain.RefreshRecord, error) {
	return nil, f.err
}

func (f *failingRefreshStore) PruneHistory(_ context.Context, _ int) error {
	return f.err
}
