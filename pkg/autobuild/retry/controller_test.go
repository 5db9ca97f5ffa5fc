package retry

import (
	"context"
	"errors"
	"testing"

	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/allocator"
	"pc-autobuild-be/pkg/autobuild/autobuildtest"
	"pc-autobuild-be/pkg/autobuild/builder"
	"pc-autobuild-be/pkg/autobuild/compat"
	"pc-autobuild-be/pkg/autobuild/pool"
	"pc-autobuild-be/pkg/autobuild/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(store autobuild.GraphStore, tuning autobuild.Tuning) *Controller {
	return NewController(
		allocator.New(store, tuning),
		pool.NewProvider(store),
		builder.New(compat.NewChecker(store), tuning.SearchStepLimit),
		tuning,
	)
}

func TestNextBudget(t *testing.T) {
	c := newController(autobuildtest.NewCatalog(), autobuild.DefaultTuning())

	tests := []struct {
		attempt  int
		budget   int64
		want     int64
		increase bool
	}{
		{1, 20_000_000, 21_000_000, true},
		{2, 21_000_000, 22_050_000, true},
		{4, 10_000_001, 10_500_001, true},
		{5, 20_000_000, 20_100_000, false},
		{10, 1_000_000, 1_480_000, false},
	}

	for _, tt := range tests {
		got, increase := c.NextBudget(tt.budget, tt.attempt)
		assert.Equal(t, tt.want, got, "attempt %d", tt.attempt)
		assert.Equal(t, tt.increase, increase, "attempt %d", tt.attempt)
	}
	assert.Equal(t, int64(24_000_000), c.CostCap(20_000_000))
}

func TestResolvePreferredCPUWithinCap(t *testing.T) {
	c := newController(autobuildtest.NewDesktopCatalog(), autobuild.DefaultTuning())
	sess := session.NewState("r")
	intent := autobuild.Intent{
		Purpose:        autobuild.PurposeGaming,
		Budget:         20_000_000,
		PreferredParts: []autobuild.PartRef{{Name: "Ryzen 5 5600", Category: autobuild.CPU}},
	}

	out, err := c.Resolve(context.Background(), sess, intent, autobuild.StrategyPerformance)
	require.NoError(t, err)
	require.True(t, out.Complete, out.Config.String())

	cpu, _ := out.Config.Get(autobuild.CPU)
	assert.Equal(t, autobuildtest.Ryzen5600, cpu)
	assert.LessOrEqual(t, out.Config.TotalCost(), int64(24_000_000))
	assert.Equal(t, 1, out.Attempts)

	snapshot, ok := sess.BudgetSnapshot(autobuild.StrategyPerformance)
	require.True(t, ok)
	assert.Equal(t, out.FinalBudget, snapshot)
}

func TestResolveEmptyCategoryDegradesToPartial(t *testing.T) {
	tuning := autobuild.DefaultTuning()
	c := newController(autobuildtest.NewDesktopCatalog(autobuild.Case), tuning)

	out, err := c.Resolve(context.Background(), session.NewState("r"), autobuild.Intent{
		Purpose: autobuild.PurposeGaming,
		Budget:  20_000_000,
	}, autobuild.StrategyPerformance)
	require.NoError(t, err)

	assert.False(t, out.Complete)
	assert.Equal(t, []autobuild.Category{autobuild.Case}, out.Config.Missing())
	// Three straight increases exhaust the increase bound well before the
	// attempt cap.
	assert.Equal(t, tuning.MaxBudgetIncreases+1, out.Attempts)
	assert.Equal(t, tuning.MaxBudgetIncreases, out.Increases)
	assert.LessOrEqual(t, out.Config.TotalCost(), c.CostCap(20_000_000))
}

func TestResolveStopsAtAttemptCap(t *testing.T) {
	tuning := autobuild.DefaultTuning()
	tuning.MaxBudgetIncreases = 1_000
	c := newController(autobuildtest.NewDesktopCatalog(autobuild.Case), tuning)

	out, err := c.Resolve(context.Background(), session.NewState("r"), autobuild.Intent{
		Purpose: autobuild.PurposeWorkstation,
		Budget:  20_000_000,
	}, autobuild.StrategyCost)
	require.NoError(t, err)

	assert.False(t, out.Complete)
	assert.Equal(t, tuning.MaxAttempts, out.Attempts)
	// Attempts 5, 10, ... 25 reallocate instead of increasing.
	assert.Equal(t, 24, out.Increases)
	assert.Equal(t, []autobuild.Category{autobuild.Case}, out.Config.Missing())
}

func TestResolveRejectsForcedConfiguration(t *testing.T) {
	catalog := autobuildtest.NewCatalog().Add(
		autobuildtest.Ryzen5600, autobuildtest.AK400, autobuildtest.B550M, autobuildtest.RTX3060,
		autobuildtest.Fury16, autobuildtest.Samsung980, autobuildtest.GamingX, autobuildtest.XPower400,
	).ConnectAll()
	c := newController(catalog, autobuild.DefaultTuning())

	out, err := c.Resolve(context.Background(), session.NewState("r"), autobuild.Intent{
		Purpose: autobuild.PurposeGaming,
		Budget:  20_000_000,
	}, autobuild.StrategyCost)
	require.NoError(t, err)

	assert.False(t, out.Complete)
	assert.False(t, out.Config.Has(autobuild.PowerSupply))
	assert.Equal(t, 7, out.Config.Len())
}

func TestResolveStopsWhenCostExceedsCap(t *testing.T) {
	c := newController(autobuildtest.NewDesktopCatalog(), autobuild.DefaultTuning())

	out, err := c.Resolve(context.Background(), session.NewState("r"), autobuild.Intent{
		Purpose:        autobuild.PurposeGaming,
		Budget:         5_000_000,
		PreferredParts: []autobuild.PartRef{{Name: "RTX 4060", Category: autobuild.GraphicsCard, ByChipset: true}},
	}, autobuild.StrategyCost)
	require.NoError(t, err)

	assert.False(t, out.Complete)
	assert.Equal(t, 1, out.Attempts)
	assert.Zero(t, out.Config.Len())
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	catalog := autobuildtest.NewDesktopCatalog()
	catalog.Err = errors.New("graph down")
	c := newController(catalog, autobuild.DefaultTuning())

	_, err := c.Resolve(context.Background(), session.NewState("r"), autobuild.Intent{Budget: 20_000_000}, autobuild.StrategyCost)
	assert.ErrorContains(t, err, "graph down")
}
