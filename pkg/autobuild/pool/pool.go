package pool

import (
	"context"
	"fmt"

	"pc-autobuild-be/internal/pkg/metrics"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/session"
)

// Provider sources candidate pools from the graph store through the session's
// range-query cache.
type Provider struct {
	store autobuild.GraphStore
}

func NewProvider(store autobuild.GraphStore) *Provider {
	return &Provider{store: store}
}

// Fetch builds the strategy's pool for the allocation and stores it on the
// session. Cached range results are kept unfiltered, so exclusions added
// later still apply to a cache hit.
func (p *Provider) Fetch(ctx context.Context, sess *session.State, alloc autobuild.Allocation, strategy autobuild.Strategy) (autobuild.CandidatePool, error) {
	objective := strategy.Objective()
	pool := make(autobuild.CandidatePool, len(autobuild.BuildOrder))

	for _, c := range autobuild.BuildOrder {
		ceiling := alloc[c]
		key := session.RangeKey{Category: c, Ceiling: ceiling, Objective: objective}

		entry, ok := sess.Range(key)
		if ok {
			metrics.PoolCacheLookups.WithLabelValues("hit").Inc()
		} else {
			metrics.PoolCacheLookups.WithLabelValues("miss").Inc()
			parts, err := p.store.FindWithinBudget(ctx, c, ceiling, objective)
			if err != nil {
				return nil, fmt.Errorf("fetch %s within %d: %w", c, ceiling, err)
			}
			entry = session.RangeEntry{Parts: parts, Ceiling: ceiling}
			sess.StoreRange(key, entry)
		}

		pool[c] = filterExcluded(sess, strategy, c, entry.Parts)
	}

	sess.SetPool(strategy, pool)
	return pool, nil
}

func filterExcluded(sess *session.State, strategy autobuild.Strategy, c autobuild.Category, parts []autobuild.Part) []autobuild.Part {
	out := make([]autobuild.Part, 0, len(parts))
	for _, part := range parts {
		if sess.IsExcluded(strategy, c, part.Name) {
			continue
		}
		part.Category = c
		out = append(out, part)
	}
	return out
}
