package session

import (
	"sync"
	"sync/atomic"
	"time"

	"pc-autobuild-be/pkg/autobuild"
)

// RangeKey identifies one cached range query.
type RangeKey struct {
	Category  autobuild.Category
	Ceiling   int64
	Objective autobuild.Objective
}

// RangeEntry is the raw (pre-exclusion) result of a range query together with
// the ceiling it was fetched with.
type RangeEntry struct {
	Parts   []autobuild.Part
	Ceiling int64
}

// State is the mutable resolver state owned by one requester. Strategies of a
// single request may run concurrently, so every accessor takes the lock.
type State struct {
	RequesterID string

	mu         sync.Mutex
	pools      map[autobuild.Strategy]autobuild.CandidatePool
	preferred  map[string]autobuild.PartsByCategory
	ranges     map[RangeKey]RangeEntry
	lastBudget map[autobuild.Strategy]int64
	excluded   map[autobuild.Strategy]map[autobuild.Category]map[string]struct{}

	lastAccess atomic.Int64
	inflight   atomic.Int32
}

func NewState(requesterID string) *State {
	s := &State{
		RequesterID: requesterID,
		pools:       make(map[autobuild.Strategy]autobuild.CandidatePool),
		preferred:   make(map[string]autobuild.PartsByCategory),
		ranges:      make(map[RangeKey]RangeEntry),
		lastBudget:  make(map[autobuild.Strategy]int64),
		excluded:    make(map[autobuild.Strategy]map[autobuild.Category]map[string]struct{}),
	}
	s.Touch(time.Now())
	return s
}

func (s *State) Touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

func (s *State) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// InFlight is the number of resolutions currently using the state.
func (s *State) InFlight() int {
	return int(s.inflight.Load())
}

func (s *State) begin() { s.inflight.Add(1) }
func (s *State) end()   { s.inflight.Add(-1) }

func (s *State) Pool(strategy autobuild.Strategy) (autobuild.CandidatePool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[strategy]
	return p, ok
}

func (s *State) SetPool(strategy autobuild.Strategy, pool autobuild.CandidatePool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[strategy] = pool
}

func (s *State) Preferred(key string) (autobuild.PartsByCategory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferred[key]
	return p, ok
}

func (s *State) StorePreferred(key string, parts autobuild.PartsByCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferred[key] = parts
}

func (s *State) Range(key RangeKey) (RangeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ranges[key]
	return e, ok
}

func (s *State) StoreRange(key RangeKey, entry RangeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[key] = entry
}

func (s *State) SetBudgetSnapshot(strategy autobuild.Strategy, budget int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBudget[strategy] = budget
}

func (s *State) BudgetSnapshot(strategy autobuild.Strategy) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.lastBudget[strategy]
	return b, ok
}

// Exclude permanently removes name from future pools of (strategy, category).
func (s *State) Exclude(strategy autobuild.Strategy, c autobuild.Category, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCat, ok := s.excluded[strategy]
	if !ok {
		byCat = make(map[autobuild.Category]map[string]struct{})
		s.excluded[strategy] = byCat
	}
	names, ok := byCat[c]
	if !ok {
		names = make(map[string]struct{})
		byCat[c] = names
	}
	names[name] = struct{}{}
}

func (s *State) IsExcluded(strategy autobuild.Strategy, c autobuild.Category, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.excluded[strategy][c][name]
	return ok
}

// ExcludedCount is the number of excluded names for the strategy.
func (s *State) ExcludedCount(strategy autobuild.Strategy) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, names := range s.excluded[strategy] {
		n += len(names)
	}
	return n
}

// ResetExclusions clears the exclusion record of a strategy.
func (s *State) ResetExclusions(strategy autobuild.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.excluded, strategy)
}
