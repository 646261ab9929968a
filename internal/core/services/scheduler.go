package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
	"github.com/custodia-labs/repocache/internal/core/ports/driving"
	"github.com/custodia-labs/repocache/internal/logger"
)

// historyRetention is how many refresh records are kept per kind.
const historyRetention = 100

// Ensure RefreshScheduler implements the interface.
var _ driving.RefreshScheduler = (*RefreshScheduler)(nil)

// RefreshScheduler triggers forced sweeps of every configured source,
// periodically while auto-refresh is enabled and on demand.
type RefreshScheduler struct {
	sourceStore  driven.SourceStore
	refreshStore driven.RefreshStore
	settings     driving.SettingsService
	orch         driving.RefreshOrchestrator

	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	reloadCh chan struct{}
	active   time.Duration
}

// SchedulerOption configures a RefreshScheduler.
type SchedulerOption func(*RefreshScheduler)

// WithTickInterval overrides the tick interval from settings.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *RefreshScheduler) {
		s.interval = d
	}
}

// WithSchedulerClock replaces the clock used for bookkeeping.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *RefreshScheduler) {
		s.now = now
	}
}

// NewRefreshScheduler creates a scheduler. It stays idle until Start.
func NewRefreshScheduler(
	sourceStore driven.SourceStore,
	refreshStore driven.RefreshStore,
	settings driving.SettingsService,
	orch driving.RefreshOrchestrator,
	opts ...SchedulerOption,
) *RefreshScheduler {
	s := &RefreshScheduler{
		sourceStore:  sourceStore,
		refreshStore: refreshStore,
		settings:     settings,
		orch:         orch,
		now:          time.Now,
		reloadCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the timer. This method blocks until Stop is called or ctx
// is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.stopCh = make(chan struct{})
	s.cancel = cancel
	stopCh := s.stopCh
	s.mu.Unlock()

	defer cancel()

	cfg := s.loadSettings()
	interval := s.tickInterval(cfg)

	if cfg.RefreshOnLaunch {
		s.runAsync(ctx, domain.RefreshLaunch)
	}

	s.setActive(interval)
	err := s.run(ctx, interval, stopCh)

	// Leave the scheduler restartable when ctx ended the loop.
	s.mu.Lock()
	if s.running && s.stopCh == stopCh {
		s.running = false
		close(s.stopCh)
	}
	s.mu.Unlock()
	s.wg.Wait()

	return err
}

// Stop cancels the timer, abandons any in-flight sweep and waits for it
// to return. No sweep is started on shutdown.
func (s *RefreshScheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Armed reports whether the timer is running.
func (s *RefreshScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reload re-reads settings on the running loop. A changed interval
// re-arms the timer; nothing else is interrupted.
func (s *RefreshScheduler) Reload() {
	select {
	case s.reloadCh <- struct{}{}:
	default:
	}
}

// ActiveInterval returns the period the running timer was armed with,
// or zero when idle.
func (s *RefreshScheduler) ActiveInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return s.active
}

func (s *RefreshScheduler) setActive(d time.Duration) {
	s.mu.Lock()
	s.active = d
	s.mu.Unlock()
}

// run is the main scheduler loop.
func (s *RefreshScheduler) run(ctx context.Context, interval time.Duration, stopCh <-chan struct{}) error {
	logger.Info("scheduler: armed, refreshing every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.tick(ctx)
		case <-s.reloadCh:
			if next := s.tickInterval(s.loadSettings()); next != interval {
				logger.Info("scheduler: interval changed from %s to %s", interval, next)
				interval = next
				ticker.Reset(interval)
				s.setActive(interval)
			}
		}
	}
}

// tick runs an automatic refresh if it is enabled.
func (s *RefreshScheduler) tick(ctx context.Context) {
	if !s.loadSettings().AutoRefresh {
		logger.Debug("scheduler: auto-refresh disabled, skipping tick")
		return
	}
	s.runAsync(ctx, domain.RefreshAuto)
}

// runAsync runs RefreshAll in a goroutine tracked by Stop. Nothing is
// started once Stop has been called.
func (s *RefreshScheduler) runAsync(ctx context.Context, kind domain.RefreshKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		logger.Debug("scheduler: stopped, not starting %s refresh", kind)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err := s.RefreshAll(ctx, kind)
		switch {
		case errors.Is(err, domain.ErrSweepInProgress):
			logger.Info("scheduler: %s refresh skipped, another sweep is running", kind)
		case err != nil:
			logger.Error("scheduler: %s refresh failed: %v", kind, err)
		}
	}()
}

// RefreshNow force-refreshes every source and records a manual refresh.
func (s *RefreshScheduler) RefreshNow(ctx context.Context) (*domain.SweepReport, error) {
	return s.RefreshAll(ctx, domain.RefreshManual)
}

// RefreshAll force-refreshes every configured source and records the
// completion time under kind's bookkeeping key. Skipped and cancelled
// sweeps are not recorded. A sweep that collides with one already running
// returns its report with domain.ErrSweepInProgress.
func (s *RefreshScheduler) RefreshAll(ctx context.Context, kind domain.RefreshKind) (*domain.SweepReport, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		logger.Debug("scheduler: no sources configured")
		return &domain.SweepReport{
			Kind:       kind,
			Forced:     true,
			Skipped:    true,
			SkipReason: domain.SkipNoSources,
		}, nil
	}

	cfg := s.loadSettings()
	logger.Info("scheduler: %s refresh of %d sources", kind, len(sources))

	report := s.orch.Sweep(ctx, sources, domain.SweepOptions{
		Force:     true,
		BatchSize: cfg.BatchSize,
		Kind:      kind,
	})
	if report.SkipReason == domain.SkipDuplicate {
		return report, fmt.Errorf("%s refresh: %w", kind, domain.ErrSweepInProgress)
	}
	if report.Skipped || report.Cancelled {
		return report, nil
	}

	record := domain.NewRefreshRecord(report)
	record.EndedAt = s.now()
	if err := s.refreshStore.RecordRefresh(ctx, record); err != nil {
		return report, fmt.Errorf("record %s refresh: %w", record.Kind, err)
	}
	if err := s.refreshStore.PruneHistory(ctx, historyRetention); err != nil {
		logger.Warn("scheduler: failed to prune history: %v", err)
	}

	return report, nil
}

// Status returns bookkeeping for display.
func (s *RefreshScheduler) Status(ctx context.Context) (*domain.RefreshStatus, error) {
	lastAuto, err := s.refreshStore.LastRefresh(ctx, domain.RefreshAuto)
	if err != nil {
		return nil, fmt.Errorf("last auto refresh: %w", err)
	}
	lastManual, err := s.refreshStore.LastRefresh(ctx, domain.RefreshManual)
	if err != nil {
		return nil, fmt.Errorf("last manual refresh: %w", err)
	}

	cfg := s.loadSettings()
	interval := s.tickInterval(cfg)
	if active := s.ActiveInterval(); active > 0 {
		interval = active
	}

	return &domain.RefreshStatus{
		LastAuto:    lastAuto,
		LastManual:  lastManual,
		Running:     s.orch.InProgress(),
		Armed:       s.Armed(),
		AutoEnabled: cfg.AutoRefresh,
		Interval:    interval,
	}, nil
}

// History returns up to limit recorded refreshes of kind, most recent first.
func (s *RefreshScheduler) History(ctx context.Context, kind domain.RefreshKind, limit int) ([]domain.RefreshRecord, error) {
	records, err := s.refreshStore.History(ctx, kind.BookkeepingKind(), limit)
	if err != nil {
		return nil, fmt.Errorf("%s refresh history: %w", kind, err)
	}
	return records, nil
}

// tickInterval prefers the WithTickInterval override over settings.
func (s *RefreshScheduler) tickInterval(cfg domain.RefreshSettings) time.Duration {
	if s.interval > 0 {
		return s.interval
	}
	return cfg.Interval
}

// loadSettings returns current settings, falling back to defaults.
func (s *RefreshScheduler) loadSettings() domain.RefreshSettings {
	if s.settings == nil {
		return domain.DefaultRefreshSettings()
	}
	cfg, err := s.settings.Get()
	if err != nil || cfg == nil {
		logger.Warn("scheduler: using default settings: %v", err)
		return domain.DefaultRefreshSettings()
	}
	return *cfg
}
