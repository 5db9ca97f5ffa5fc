package session

import (
	"sync"
	"testing"

	"pc-autobuild-be/pkg/autobuild"

	"github.com/stretchr/testify/assert"
)

func TestExclusionsArePerStrategy(t *testing.T) {
	s := NewState("r")

	s.Exclude(autobuild.StrategyCost, autobuild.CPU, "Ryzen 5 5600")
	s.Exclude(autobuild.StrategyCost, autobuild.CPU, "Ryzen 5 5600")
	s.Exclude(autobuild.StrategyCost, autobuild.RAM, "Fury 16GB")

	assert.True(t, s.IsExcluded(autobuild.StrategyCost, autobuild.CPU, "Ryzen 5 5600"))
	assert.False(t, s.IsExcluded(autobuild.StrategyPerformance, autobuild.CPU, "Ryzen 5 5600"))
	assert.Equal(t, 2, s.ExcludedCount(autobuild.StrategyCost))

	s.ResetExclusions(autobuild.StrategyCost)
	assert.Zero(t, s.ExcludedCount(autobuild.StrategyCost))
	assert.False(t, s.IsExcluded(autobuild.StrategyCost, autobuild.CPU, "Ryzen 5 5600"))
}

func TestStateIsSafeForConcurrentStrategies(t *testing.T) {
	s := NewState("r")

	var wg sync.WaitGroup
	for _, strategy := range autobuild.AllStrategies {
		wg.Add(1)
		go func(strategy autobuild.Strategy) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Exclude(strategy, autobuild.Case, "case")
				s.SetBudgetSnapshot(strategy, int64(i))
				s.SetPool(strategy, autobuild.CandidatePool{})
				_, _ = s.Pool(strategy)
				_ = s.IsExcluded(strategy, autobuild.Case, "case")
			}
		}(strategy)
	}
	wg.Wait()

	for _, strategy := range autobuild.AllStrategies {
		b, ok := s.BudgetSnapshot(strategy)
		assert.True(t, ok)
		assert.Equal(t, int64(99), b)
		assert.Equal(t, 1, s.ExcludedCount(strategy))
	}
}

func TestRangeCache(t *testing.T) {
	s := NewState("r")
	key := RangeKey{Category: autobuild.CPU, Ceiling: 4_000_000, Objective: autobuild.ObjectivePrice}

	_, ok := s.Range(key)
	assert.False(t, ok)

	s.StoreRange(key, RangeEntry{Ceiling: 4_000_000, Parts: []autobuild.Part{{Name: "a"}}})
	e, ok := s.Range(key)
	assert.True(t, ok)
	assert.Len(t, e.Parts, 1)
}
