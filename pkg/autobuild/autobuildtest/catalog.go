// Package autobuildtest provides an in-memory graph store for resolver tests.
package autobuildtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"pc-autobuild-be/pkg/autobuild"
)

type edgeKey struct {
	from, to autobuild.PartKey
}

// Catalog is a GraphStore backed by maps. Name matching is a case-insensitive
// substring test; the shortest matching name wins.
type Catalog struct {
	mu    sync.RWMutex
	parts map[autobuild.Category][]autobuild.Part
	edges map[edgeKey]struct{}

	// Err, when set, is returned by every query.
	Err error

	MatchCalls atomic.Int64
	RangeCalls atomic.Int64
	EdgeCalls  atomic.Int64
}

func NewCatalog() *Catalog {
	return &Catalog{
		parts: make(map[autobuild.Category][]autobuild.Part),
		edges: make(map[edgeKey]struct{}),
	}
}

// Add inserts parts into their categories.
func (c *Catalog) Add(parts ...autobuild.Part) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range parts {
		c.parts[p.Category] = append(c.parts[p.Category], p)
	}
	return c
}

// Connect records a COMPATIBLE_WITH edge from -> to.
func (c *Catalog) Connect(from, to autobuild.Part) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edges[edgeKey{from.Key(), to.Key()}] = struct{}{}
	return c
}

// ConnectAll adds every edge autobuild.EdgePairs expects between the parts
// currently in the catalog, so only dynamic checks can reject a combination.
func (c *Catalog) ConnectAll() *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pair := range autobuild.EdgePairs {
		for _, from := range c.parts[pair[0]] {
			for _, to := range c.parts[pair[1]] {
				c.edges[edgeKey{from.Key(), to.Key()}] = struct{}{}
			}
		}
	}
	return c
}

// Disconnect removes the edge from -> to.
func (c *Catalog) Disconnect(from, to autobuild.Part) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.edges, edgeKey{from.Key(), to.Key()})
	return c
}

func (c *Catalog) FindBestMatch(ctx context.Context, category autobuild.Category, text string, byChipset bool) (*autobuild.Part, error) {
	c.MatchCalls.Add(1)
	if c.Err != nil {
		return nil, c.Err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(text))
	var best *autobuild.Part
	for i := range c.parts[category] {
		p := c.parts[category][i]
		if p.Price <= 0 {
			continue
		}
		hay := p.Name
		if byChipset {
			hay = p.Chipset
		}
		if !strings.Contains(strings.ToLower(hay), needle) {
			continue
		}
		if best == nil || len(p.Name) < len(best.Name) {
			best = &p
		}
	}
	return best, nil
}

func (c *Catalog) FindWithinBudget(ctx context.Context, category autobuild.Category, ceiling int64, objective autobuild.Objective) ([]autobuild.Part, error) {
	c.RangeCalls.Add(1)
	if c.Err != nil {
		return nil, c.Err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []autobuild.Part
	for _, p := range c.parts[category] {
		if p.Price <= ceiling {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		switch objective {
		case autobuild.ObjectiveBenchmark:
			return out[i].BenchmarkScore > out[j].BenchmarkScore
		case autobuild.ObjectiveSales:
			return out[i].SalesVolume > out[j].SalesVolume
		default:
			return out[i].Price < out[j].Price
		}
	})
	return out, nil
}

func (c *Catalog) HasEdge(ctx context.Context, from, to autobuild.PartKey) (bool, error) {
	c.EdgeCalls.Add(1)
	if c.Err != nil {
		return false, c.Err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.edges[edgeKey{from, to}]
	return ok, nil
}

var _ autobuild.GraphStore = (*Catalog)(nil)

// Snapshot lists every part and every edge of the catalog, edges ordered by
// their endpoints.
func (c *Catalog) Snapshot() ([]autobuild.Part, [][2]autobuild.PartKey) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var parts []autobuild.Part
	for _, category := range autobuild.BuildOrder {
		parts = append(parts, c.parts[category]...)
	}
	edges := make([][2]autobuild.PartKey, 0, len(c.edges))
	for k := range c.edges {
		edges = append(edges, [2]autobuild.PartKey{k.from, k.to})
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a[0] != b[0] {
			return keyLess(a[0], b[0])
		}
		return keyLess(a[1], b[1])
	})
	return parts, edges
}

func keyLess(a, b autobuild.PartKey) bool {
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Name < b.Name
}
