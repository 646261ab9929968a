package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

func TestRefreshStore_LastRefresh_Empty(t *testing.T) {
	store := NewRefreshStore()

	last, err := store.LastRefresh(context.Background(), domain.RefreshAuto)
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestRefreshStore_RecordAndLast(t *testing.T) {
	store := NewRefreshStore()
	ctx := context.Background()
	base := time.Date(2025, 9, 5, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordRefresh(ctx, &domain.RefreshRecord{Kind: domain.RefreshAuto, EndedAt: base}))
	require.NoError(t, store.RecordRefresh(ctx, &domain.RefreshRecord{Kind: domain.RefreshAuto, EndedAt: base.Add(time.Hour)}))
	require.NoError(t, store.RecordRefresh(ctx, &domain.RefreshRecord{Kind: domain.RefreshManual, EndedAt: base.Add(-time.Hour)}))

	auto, err := store.LastRefresh(ctx, domain.RefreshAuto)
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Hour), auto)

	manual, err := store.LastRefresh(ctx, domain.RefreshManual)
	require.NoError(t, err)
	assert.Equal(t, base.Add(-time.Hour), manual)
}

func TestRefreshStore_RecordRefresh_Invalid(t *testing.T) {
	store := NewRefreshStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.RecordRefresh(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.RecordRefresh(ctx, &domain.RefreshRecord{Kind: "weekly"}), domain.ErrInvalidInput)
}

func TestRefreshStore_HistoryAndPrune(t *testing.T) {
	store := NewRefreshStore()
	ctx := context.Background()
	base := time.Date(2025, 9, 5, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordRefresh(ctx, &domain.RefreshRecord{
			Kind:    domain.RefreshManual,
			EndedAt: base.Add(time.Duration(i) * time.Minute),
			Updated: i,
		}))
	}

	history, err := store.History(ctx, domain.RefreshManual, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 4, history[0].Updated)
	assert.Equal(t, 3, history[1].Updated)

	require.NoError(t, store.PruneHistory(ctx, 3))

	history, err = store.History(ctx, domain.RefreshManual, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[2].Updated)
}
