package autobuild

import "time"

// Tuning collects the empirically chosen constants of the resolver so they can
// be overridden from configuration.
type Tuning struct {
	// Budget retry controller
	MaxAttempts        int
	MaxBudgetIncreases int
	MaxCostRatio       float64
	GrowthFactor       float64
	ReallocationEvery  int
	ReallocationFactor float64
	ReallocationOffset int64

	// Diversifier
	DiversifyAttempts int

	// Allocator
	PreferredBoost float64
	DefaultBoost   float64

	// Builder: upper bound on candidate evaluations per build.
	SearchStepLimit int

	// Session store
	SessionTTL   time.Duration
	SessionSweep time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxAttempts:        30,
		MaxBudgetIncreases: 3,
		MaxCostRatio:       1.2,
		GrowthFactor:       1.05,
		ReallocationEvery:  5,
		ReallocationFactor: 0.98,
		ReallocationOffset: 500_000,
		DiversifyAttempts:  30,
		PreferredBoost:     0.15,
		DefaultBoost:       0.10,
		SearchStepLimit:    20_000,
		SessionTTL:         5 * time.Minute,
		SessionSweep:       time.Minute,
	}
}
