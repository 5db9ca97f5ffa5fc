package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/autobuild"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RetryingGraphStore retries failed graph queries with exponential backoff.
// Errors that survive the retries are wrapped in autobuild.ErrGraphStore.
type RetryingGraphStore struct {
	next     autobuild.GraphStore
	tries    uint
	interval time.Duration
	logger   logger.ILogger
}

var _ autobuild.GraphStore = (*RetryingGraphStore)(nil)

func NewRetryingGraphStore(next autobuild.GraphStore, tries uint, interval time.Duration, log logger.ILogger) *RetryingGraphStore {
	if tries == 0 {
		tries = 1
	}
	return &RetryingGraphStore{next: next, tries: tries, interval: interval, logger: log}
}

func (s *RetryingGraphStore) FindBestMatch(ctx context.Context, category autobuild.Category, text string, byChipset bool) (*autobuild.Part, error) {
	return retryQuery(ctx, s, "FindBestMatch", func() (*autobuild.Part, error) {
		return s.next.FindBestMatch(ctx, category, text, byChipset)
	})
}

func (s *RetryingGraphStore) FindWithinBudget(ctx context.Context, category autobuild.Category, ceiling int64, objective autobuild.Objective) ([]autobuild.Part, error) {
	return retryQuery(ctx, s, "FindWithinBudget", func() ([]autobuild.Part, error) {
		return s.next.FindWithinBudget(ctx, category, ceiling, objective)
	})
}

func (s *RetryingGraphStore) HasEdge(ctx context.Context, from, to autobuild.PartKey) (bool, error) {
	return retryQuery(ctx, s, "HasEdge", func() (bool, error) {
		return s.next.HasEdge(ctx, from, to)
	})
}

func retryQuery[T any](ctx context.Context, s *RetryingGraphStore, op string, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if s.interval > 0 {
		b.InitialInterval = s.interval
	}

	result, err := backoff.Retry(ctx, func() (T, error) {
		v, err := fn()
		if err != nil && (ctx.Err() != nil || !transient(err)) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.Warn("GraphStore", "Query failed, retrying", map[string]interface{}{
				"operation": op,
				"error":     err.Error(),
				"retry_in":  next.String(),
			})
		}),
	)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return result, fmt.Errorf("%s: %w", op, cerr)
		}
		return result, fmt.Errorf("%w: %s: %v", autobuild.ErrGraphStore, op, err)
	}
	return result, nil
}

// transient reports whether a failed query may succeed when repeated. Server
// errors qualify only in SQLSTATE classes 08, 40, 53 and 57; errors that never
// reached the server always do.
func transient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return true
	}
	if len(pgErr.Code) < 2 {
		return false
	}
	switch pgErr.Code[:2] {
	case "08", "40", "53", "57":
		return true
	}
	return false
}
