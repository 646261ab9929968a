package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// mockSourceService implements driving.SourceService for testing.
type mockSourceService struct {
	sources []domain.Source
	err     error
}

func (m *mockSourceService) Add(_ context.Context, source domain.Source) (*domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	if source.ID == "" {
		source.ID = "generated-id"
	}
	m.sources = append(m.sources, source)
	return &source, nil
}

func (m *mockSourceService) Get(_ context.Context, id string) (*domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.sources {
		if m.sources[i].ID == id {
			src := m.sources[i]
			return &src, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSourceService) List(_ context.Context) ([]domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sources, nil
}

func (m *mockSourceService) Remove(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.sources {
		if m.sources[i].ID == id {
			m.sources = append(m.sources[:i], m.sources[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.RefreshSettings
	getErr   error
	saveErr  error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultRefreshSettings()}
}

func (m *mockSettingsService) Get() (*domain.RefreshSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.RefreshSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetAutoRefresh(enabled bool) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings.AutoRefresh = enabled
	return nil
}

func (m *mockSettingsService) SetRefreshOnLaunch(enabled bool) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings.RefreshOnLaunch = enabled
	return nil
}

func (m *mockSettingsService) AutoRefreshEnabled() bool {
	return m.settings.AutoRefresh
}

// mockOrchestrator implements driving.RefreshOrchestrator for testing.
// Sweeps cache every source whose URL is in docs and fail the rest.
type mockOrchestrator struct {
	mu      sync.Mutex
	docs    map[string]*domain.Repository
	cache   map[string]*domain.Repository
	updated map[string]time.Time
	sweeps  []domain.SweepOptions
	swept   [][]string
	calls   []string
}

func newMockOrchestrator() *mockOrchestrator {
	return &mockOrchestrator{
		docs:    make(map[string]*domain.Repository),
		cache:   make(map[string]*domain.Repository),
		updated: make(map[string]time.Time),
	}
}

func (m *mockOrchestrator) serve(url, name string) {
	payload, _ := json.Marshal(map[string]any{"name": name, "apps": []any{}})
	m.docs[url] = &domain.Repository{Name: name, SourceURL: url, Payload: payload}
}

func (m *mockOrchestrator) EnsureFetched(ctx context.Context, sources []domain.Source, batchSize int) *domain.SweepReport {
	m.record("ensure")
	return m.Sweep(ctx, sources, domain.SweepOptions{BatchSize: batchSize, Kind: domain.RefreshEnsure})
}

func (m *mockOrchestrator) Refresh(ctx context.Context, sources []domain.Source, batchSize int) *domain.SweepReport {
	m.record("refresh")
	return m.Sweep(ctx, sources, domain.SweepOptions{Force: true, BatchSize: batchSize, Kind: domain.RefreshSelected})
}

func (m *mockOrchestrator) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockOrchestrator) Sweep(_ context.Context, sources []domain.Source, opts domain.SweepOptions) *domain.SweepReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(sources))
	for _, src := range sources {
		ids = append(ids, src.ID)
	}
	m.sweeps = append(m.sweeps, opts)
	m.swept = append(m.swept, ids)

	report := &domain.SweepReport{
		Kind:      opts.Kind,
		Forced:    opts.Force,
		StartedAt: time.Now(),
		Failed:    make(map[string]string),
	}
	if len(sources) == 0 {
		report.Skipped = true
		report.SkipReason = domain.SkipFresh
		return report
	}
	report.Batches = []int{len(sources)}
	for _, src := range sources {
		report.Attempted++
		repo, ok := m.docs[src.URL]
		if !ok {
			report.Failed[src.ID] = "fetch failed"
			continue
		}
		m.cache[src.ID] = repo
		m.updated[src.ID] = time.Now()
		report.Updated = append(report.Updated, src.ID)
	}
	report.EndedAt = time.Now()
	return report
}

func (m *mockOrchestrator) InProgress() bool { return false }

func (m *mockOrchestrator) Get(sourceID string) (*domain.Repository, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	repo, ok := m.cache[sourceID]
	return repo, ok
}

func (m *mockOrchestrator) LastUpdated(sourceID string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.updated[sourceID]
	return t, ok
}

func (m *mockOrchestrator) Entries() []domain.CacheEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]domain.CacheEntry, 0, len(m.cache))
	for id, repo := range m.cache {
		entries = append(entries, domain.CacheEntry{
			Source:      domain.Source{ID: id},
			Repository:  repo,
			LastUpdated: m.updated[id],
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Source.ID < entries[j].Source.ID })
	return entries
}

// mockScheduler implements driving.RefreshScheduler for testing.
type mockScheduler struct {
	mu          sync.Mutex
	report      *domain.SweepReport
	status      *domain.RefreshStatus
	err         error
	started     chan struct{}
	refreshNows int
	reloads     int
	history     map[domain.RefreshKind][]domain.RefreshRecord
	historyErr  error
	limits      []int
}

func (m *mockScheduler) Start(ctx context.Context) error {
	if m.started != nil {
		close(m.started)
	}
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error { return nil }

func (m *mockScheduler) Reload() {
	m.mu.Lock()
	m.reloads++
	m.mu.Unlock()
}

func (m *mockScheduler) reloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloads
}

func (m *mockScheduler) RefreshNow(_ context.Context) (*domain.SweepReport, error) {
	m.refreshNows++
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockScheduler) History(_ context.Context, kind domain.RefreshKind, limit int) ([]domain.RefreshRecord, error) {
	m.limits = append(m.limits, limit)
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	records := m.history[kind]
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *mockScheduler) Status(_ context.Context) (*domain.RefreshStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

// mockWatcher implements ConfigWatcher, firing onChange once.
type mockWatcher struct {
	err error
}

func (m *mockWatcher) Watch(ctx context.Context, onChange func()) error {
	if m.err != nil {
		return m.err
	}
	onChange()
	<-ctx.Done()
	return nil
}

var errBoom = errors.New("boom")

// withServices installs s for the duration of the test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	old := Services{
		Sources:      sourceService,
		Settings:     settingsService,
		Orchestrator: refreshOrchestrator,
		Scheduler:    refreshScheduler,
		Watcher:      configWatcher,
	}
	Configure(s)
	t.Cleanup(func() { Configure(old) })
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	// Flag values persist on package-level commands between runs.
	refreshForce = false
	showJSON = false
	statusHistory = 0
	sourceAddName, sourceAddID, sourceAddIcon = "", "", ""
	sourceRmYes = false
	verbose = false

	// Subcommands keep the context of their first run unless reset.
	setContexts(rootCmd, ctx)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func setContexts(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, child := range cmd.Commands() {
		setContexts(child, ctx)
	}
}
