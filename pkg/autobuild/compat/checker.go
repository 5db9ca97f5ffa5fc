package compat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pc-autobuild-be/internal/pkg/metrics"
	"pc-autobuild-be/pkg/autobuild"

	"golang.org/x/sync/singleflight"
)

// Option adjusts a single compatibility check.
type Option func(*Options)

type Options struct {
	SkipGraph bool
}

// SkipGraph limits the check to the dynamic pass. Used for preview builds only.
func SkipGraph() Option {
	return func(o *Options) {
		o.SkipGraph = true
	}
}

// Checker decides whether a part may join a configuration. One checker is
// shared by the whole process: the edge cache holds immutable graph facts.
type Checker struct {
	store autobuild.GraphStore
	edges sync.Map // edgeCacheKey -> bool
	group singleflight.Group
}

func NewChecker(store autobuild.GraphStore) *Checker {
	return &Checker{store: store}
}

// IsCompatible runs the dynamic pass, then the graph pass. The slot of
// category is treated as empty, so part is checked as a replacement for any
// current occupant.
func (c *Checker) IsCompatible(ctx context.Context, category autobuild.Category, part autobuild.Part, cfg autobuild.Configuration, opts ...Option) (bool, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	cfg.Unassign(category)

	if !dynamicCheck(category, part, cfg) {
		return false, nil
	}
	if options.SkipGraph {
		return true, nil
	}
	return c.graphCheck(ctx, category, part, cfg)
}

// Verify re-checks every assigned part against the rest of the configuration.
func (c *Checker) Verify(ctx context.Context, cfg autobuild.Configuration, opts ...Option) (bool, error) {
	for _, cat := range cfg.Assigned() {
		part, _ := cfg.Get(cat)
		ok, err := c.IsCompatible(ctx, cat, part, cfg, opts...)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

func dynamicCheck(category autobuild.Category, part autobuild.Part, cfg autobuild.Configuration) bool {
	switch category {
	case autobuild.RAM:
		return checkRAM(part, cfg)
	case autobuild.GraphicsCard:
		return checkGraphicsCard(part, cfg)
	case autobuild.Motherboard:
		return checkMotherboard(part, cfg)
	case autobuild.InternalStorage:
		return checkStorage(part, cfg)
	case autobuild.PowerSupply:
		return checkPowerSupply(part, cfg)
	default:
		// CPU, CPUCooler and Case are constrained by the graph only.
		return true
	}
}

func (c *Checker) graphCheck(ctx context.Context, category autobuild.Category, part autobuild.Part, cfg autobuild.Configuration) (bool, error) {
	candidate := autobuild.PartKey{Name: part.Name, Category: category}

	for _, other := range cfg.Assigned() {
		fromCat, _, ok := autobuild.EdgeBetween(other, category)
		if !ok {
			continue
		}
		assigned, _ := cfg.Get(other)
		otherKey := autobuild.PartKey{Name: assigned.Name, Category: other}

		from, to := otherKey, candidate
		if fromCat == category {
			from, to = candidate, otherKey
		}

		found, err := c.hasEdge(ctx, from, to)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

type edgeCacheKey struct {
	a, b autobuild.PartKey
}

// newEdgeCacheKey orders the pair so that both directions share one entry.
func newEdgeCacheKey(x, y autobuild.PartKey) edgeCacheKey {
	if y.Category < x.Category || (y.Category == x.Category && y.Name < x.Name) {
		x, y = y, x
	}
	return edgeCacheKey{a: x, b: y}
}

// edgeLookupTimeout bounds a shared store lookup. The lookup runs detached
// from the caller that started it, so it outlives that caller's cancellation.
const edgeLookupTimeout = 10 * time.Second

func (c *Checker) hasEdge(ctx context.Context, from, to autobuild.PartKey) (bool, error) {
	key := newEdgeCacheKey(from, to)
	if v, ok := c.edges.Load(key); ok {
		metrics.EdgeCacheLookups.WithLabelValues("hit").Inc()
		return v.(bool), nil
	}
	metrics.EdgeCacheLookups.WithLabelValues("miss").Inc()

	sfKey := fmt.Sprintf("%d:%s|%d:%s", key.a.Category, key.a.Name, key.b.Category, key.b.Name)
	ch := c.group.DoChan(sfKey, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), edgeLookupTimeout)
		defer cancel()

		found, err := c.store.HasEdge(lookupCtx, from, to)
		if err != nil {
			return false, err
		}
		c.edges.Store(key, found)
		return found, nil
	})

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("edge %s -> %s: %w", from.Name, to.Name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return false, fmt.Errorf("edge %s -> %s: %w", from.Name, to.Name, res.Err)
		}
		return res.Val.(bool), nil
	}
}

// CachedEdges is the number of memoized part pairs.
func (c *Checker) CachedEdges() int {
	n := 0
	c.edges.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
