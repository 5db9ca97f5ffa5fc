package implementation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/autobuildtest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first `failures` calls.
type flakyStore struct {
	autobuild.GraphStore
	failures int32
	calls    atomic.Int32
}

func (f *flakyStore) fail() error {
	if f.calls.Add(1) <= f.failures {
		return errors.New("connection reset by peer")
	}
	return nil
}

func (f *flakyStore) FindWithinBudget(ctx context.Context, c autobuild.Category, ceiling int64, o autobuild.Objective) ([]autobuild.Part, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.GraphStore.FindWithinBudget(ctx, c, ceiling, o)
}

func (f *flakyStore) HasEdge(ctx context.Context, from, to autobuild.PartKey) (bool, error) {
	if err := f.fail(); err != nil {
		return false, err
	}
	return f.GraphStore.HasEdge(ctx, from, to)
}

func TestRetryingGraphStoreRecovers(t *testing.T) {
	inner := &flakyStore{GraphStore: autobuildtest.NewDesktopCatalog(), failures: 2}
	store := NewRetryingGraphStore(inner, 3, time.Millisecond, logger.NewNopLogger())

	parts, err := store.FindWithinBudget(context.Background(), autobuild.CPU, 3_500_000, autobuild.ObjectivePrice)
	require.NoError(t, err)
	assert.NotEmpty(t, parts)
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestRetryingGraphStoreWrapsPersistentFailure(t *testing.T) {
	inner := &flakyStore{GraphStore: autobuildtest.NewDesktopCatalog(), failures: 100}
	store := NewRetryingGraphStore(inner, 2, time.Millisecond, logger.NewNopLogger())

	_, err := store.HasEdge(context.Background(),
		autobuildtest.Ryzen5600.Key(), autobuildtest.B550M.Key())
	assert.ErrorIs(t, err, autobuild.ErrGraphStore)
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestRetryingGraphStoreStopsOnCancel(t *testing.T) {
	inner := &flakyStore{GraphStore: autobuildtest.NewDesktopCatalog(), failures: 100}
	store := NewRetryingGraphStore(inner, 5, time.Millisecond, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindWithinBudget(ctx, autobuild.CPU, 1, autobuild.ObjectivePrice)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, autobuild.ErrGraphStore)
}

type pgFailingStore struct {
	autobuild.GraphStore
	err   error
	calls atomic.Int32
}

func (f *pgFailingStore) HasEdge(ctx context.Context, from, to autobuild.PartKey) (bool, error) {
	f.calls.Add(1)
	return false, f.err
}

func TestRetryingGraphStoreClassifiesPostgresErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantCalls int32
	}{
		{"undefined table is permanent", "42P01", 1},
		{"syntax error is permanent", "42601", 1},
		{"admin shutdown is retried", "57P01", 3},
		{"serialization failure is retried", "40001", 3},
		{"connection failure is retried", "08006", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &pgFailingStore{
				GraphStore: autobuildtest.NewDesktopCatalog(),
				err:        fmt.Errorf("query: %w", &pgconn.PgError{Code: tt.code, Message: "boom"}),
			}
			store := NewRetryingGraphStore(inner, 3, time.Millisecond, logger.NewNopLogger())

			_, err := store.HasEdge(context.Background(), autobuildtest.Ryzen5600.Key(), autobuildtest.B550M.Key())
			assert.ErrorIs(t, err, autobuild.ErrGraphStore)
			assert.Equal(t, tt.wantCalls, inner.calls.Load())
		})
	}
}
