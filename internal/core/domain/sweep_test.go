package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepOptions_EffectiveBatchSize(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, SweepOptions{}.EffectiveBatchSize())
	assert.Equal(t, DefaultBatchSize, SweepOptions{BatchSize: -3}.EffectiveBatchSize())
	assert.Equal(t, 7, SweepOptions{BatchSize: 7}.EffectiveBatchSize())
}

func TestRefreshKind_IsValid(t *testing.T) {
	for _, k := range []RefreshKind{RefreshAuto, RefreshLaunch, RefreshManual, RefreshEnsure, RefreshSelected} {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, RefreshKind("weekly").IsValid())
}

func TestRefreshKind_BookkeepingKind(t *testing.T) {
	assert.Equal(t, RefreshAuto, RefreshLaunch.BookkeepingKind())
	assert.Equal(t, RefreshAuto, RefreshAuto.BookkeepingKind())
	assert.Equal(t, RefreshManual, RefreshManual.BookkeepingKind())
	assert.Equal(t, RefreshEnsure, RefreshEnsure.BookkeepingKind())
}

func TestSweepReport_Duration(t *testing.T) {
	start := time.Date(2025, 9, 5, 10, 0, 0, 0, time.UTC)

	r := &SweepReport{StartedAt: start}
	assert.Zero(t, r.Duration())

	r.EndedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, r.Duration())
}

func TestNewRefreshRecord(t *testing.T) {
	start := time.Date(2025, 9, 5, 10, 0, 0, 0, time.UTC)
	report := &SweepReport{
		Kind:      RefreshLaunch,
		StartedAt: start,
		EndedAt:   start.Add(time.Second),
		Attempted: 3,
		Updated:   []string{"a"},
		Failed:    map[string]string{"b": "boom", "c": "no url"},
	}

	rec := NewRefreshRecord(report)

	assert.Equal(t, RefreshAuto, rec.Kind)
	assert.Equal(t, start, rec.StartedAt)
	assert.Equal(t, 3, rec.Attempted)
	assert.Equal(t, 1, rec.Updated)
	assert.Equal(t, 2, rec.Failed)
}

func TestSweepReport_FailedIDs(t *testing.T) {
	report := &SweepReport{Failed: map[string]string{"c": "x", "a": "y", "b": "z"}}

	assert.Equal(t, []string{"a", "b", "c"}, report.FailedIDs())
	assert.Empty(t, (&SweepReport{}).FailedIDs())
}
