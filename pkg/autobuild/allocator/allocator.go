package allocator

import (
	"context"
	"fmt"
	"math"

	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/session"
)

// Weights is a purpose specific share of the budget per category.
type Weights map[autobuild.Category]float64

var (
	GamingWeights = Weights{
		autobuild.CPU:             0.20,
		autobuild.CPUCooler:       0.04,
		autobuild.Motherboard:     0.12,
		autobuild.GraphicsCard:    0.35,
		autobuild.RAM:             0.08,
		autobuild.InternalStorage: 0.07,
		autobuild.Case:            0.05,
		autobuild.PowerSupply:     0.09,
	}
	WorkstationWeights = Weights{
		autobuild.CPU:             0.30,
		autobuild.CPUCooler:       0.05,
		autobuild.Motherboard:     0.14,
		autobuild.GraphicsCard:    0.20,
		autobuild.RAM:             0.12,
		autobuild.InternalStorage: 0.08,
		autobuild.Case:            0.04,
		autobuild.PowerSupply:     0.07,
	}
)

// WeightsFor returns the table of a purpose, normalized to sum to 1.
func WeightsFor(p autobuild.Purpose) Weights {
	table := GamingWeights
	if p == autobuild.PurposeWorkstation {
		table = WorkstationWeights
	}
	return table.normalized()
}

func (w Weights) normalized() Weights {
	var sum float64
	for _, v := range w {
		sum += v
	}
	out := make(Weights, len(w))
	for c, v := range w {
		if sum > 0 {
			out[c] = v / sum
		}
	}
	return out
}

// Allocator splits a run budget into per-category ceilings.
type Allocator struct {
	store          autobuild.GraphStore
	preferredBoost float64
	defaultBoost   float64
}

func New(store autobuild.GraphStore, tuning autobuild.Tuning) *Allocator {
	return &Allocator{
		store:          store,
		preferredBoost: tuning.PreferredBoost,
		defaultBoost:   tuning.DefaultBoost,
	}
}

// Allocate resolves the preferred parts of the run's intent and computes the
// ceilings for the run's current budget. It writes only to the session's
// preferred-part cache and never touches run.Budget, so calling it twice in a
// row yields the same allocation.
func (a *Allocator) Allocate(ctx context.Context, sess *session.State, run *autobuild.Run) (autobuild.PartsByCategory, autobuild.Allocation, error) {
	preferred, err := a.ResolvePreferred(ctx, sess, run.Intent)
	if err != nil {
		return nil, nil, err
	}

	boost := a.defaultBoost
	if preferred.Len() > 0 {
		boost = a.preferredBoost
	}

	return preferred, Ceilings(run.Intent.Purpose, run.Budget, preferred.Cost(), boost), nil
}

// Ceilings computes floor((budget - committed) * w * (1 + boost)) per
// category. A budget already consumed by preferred parts yields zero ceilings.
func Ceilings(purpose autobuild.Purpose, budget, committed int64, boost float64) autobuild.Allocation {
	remaining := budget - committed
	if remaining < 0 {
		remaining = 0
	}
	alloc := make(autobuild.Allocation, len(autobuild.BuildOrder))
	for c, w := range WeightsFor(purpose) {
		alloc[c] = int64(math.Floor(float64(remaining) * w * (1 + boost)))
	}
	return alloc
}

// ResolvePreferred maps every preferred reference to its best catalog match.
// Results are cached on the session per input text; a hit skips the store.
// References without a priced match are dropped.
func (a *Allocator) ResolvePreferred(ctx context.Context, sess *session.State, intent autobuild.Intent) (autobuild.PartsByCategory, error) {
	if len(intent.PreferredParts) == 0 {
		return autobuild.PartsByCategory{}, nil
	}

	key := intent.CacheKey()
	if cached, ok := sess.Preferred(key); ok {
		return cached, nil
	}

	resolved := make(autobuild.PartsByCategory)
	seen := make(map[autobuild.PartKey]bool)
	for _, ref := range intent.PreferredParts {
		part, err := a.store.FindBestMatch(ctx, ref.Category, ref.Name, ref.ByChipset)
		if err != nil {
			return nil, fmt.Errorf("resolve preferred %s %q: %w", ref.Category, ref.Name, err)
		}
		if part == nil || part.Price <= 0 {
			continue
		}
		p := *part
		p.Category = ref.Category
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		resolved[ref.Category] = append(resolved[ref.Category], p)
	}

	sess.StorePreferred(key, resolved)
	return resolved, nil
}
