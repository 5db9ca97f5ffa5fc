package autobuild

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationAssignUnassign(t *testing.T) {
	var cfg Configuration
	assert.Equal(t, BuildOrder[:], cfg.Missing())

	cfg.Assign(CPU, Part{Name: "Ryzen 5 5600", Price: 3_000_000})
	cfg.Assign(RAM, Part{Name: "Fury 16GB", Price: 1_100_000})

	cpu, ok := cfg.Get(CPU)
	require.True(t, ok)
	assert.Equal(t, CPU, cpu.Category, "assign stamps the slot category")
	assert.Equal(t, []Category{CPU, RAM}, cfg.Assigned())
	assert.Equal(t, int64(4_100_000), cfg.TotalCost())

	snapshot := cfg.Clone()
	cfg.Unassign(RAM)
	assert.False(t, cfg.Has(RAM))
	assert.True(t, snapshot.Has(RAM), "clones do not alias")
	assert.Equal(t, 1, cfg.Len())
}

func TestConfigurationCompleteness(t *testing.T) {
	var cfg Configuration
	for _, c := range BuildOrder {
		assert.False(t, cfg.IsComplete())
		cfg.Assign(c, Part{Name: c.String() + "-part", Price: 1})
	}
	assert.True(t, cfg.IsComplete())
	assert.Empty(t, cfg.Missing())
}

func TestConfigurationIdentity(t *testing.T) {
	var a, b Configuration
	a.Assign(CPU, Part{Name: "x", Price: 1})
	b.Assign(CPU, Part{Name: "x", Price: 2})
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Assign(Case, Part{Name: "y"})
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestConfigurationJSON(t *testing.T) {
	var cfg Configuration
	cfg.Assign(GraphicsCard, Part{Name: "RTX 4060", Price: 7_600_000, Specs: Specs{TDP: 115}})

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"GraphicsCard":`)
	assert.NotContains(t, string(raw), `"CPU":`)

	var back Configuration
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, cfg.Equal(back))

	assert.Error(t, json.Unmarshal([]byte(`{"Monitor":{"name":"x"}}`), &back))
}

func TestParseCategoryAndStrategy(t *testing.T) {
	c, err := ParseCategory("gpu")
	require.NoError(t, err)
	assert.Equal(t, GraphicsCard, c)

	c, err = ParseCategory(" internalstorage ")
	require.NoError(t, err)
	assert.Equal(t, InternalStorage, c)

	_, err = ParseCategory("Monitor")
	assert.Error(t, err)

	s, err := ParseStrategy("Performance")
	require.NoError(t, err)
	assert.Equal(t, ObjectiveBenchmark, s.Objective())
	_, err = ParseStrategy("cheapest")
	assert.Error(t, err)
}

func TestEstimatedDraw(t *testing.T) {
	var cfg Configuration
	cfg.Assign(CPU, Part{Name: "cpu", Specs: Specs{TDP: 65}})
	cfg.Assign(CPUCooler, Part{Name: "cooler"})
	cfg.Assign(Motherboard, Part{Name: "mb"})
	cfg.Assign(GraphicsCard, Part{Name: "gpu", Specs: Specs{TDP: 170}})
	cfg.Assign(RAM, Part{Name: "ram", Specs: Specs{Modules: 2}})
	cfg.Assign(InternalStorage, Part{Name: "hdd", Specs: Specs{FormFactor: FormFactor35}})
	cfg.Assign(PowerSupply, Part{Name: "psu", Specs: Specs{Wattage: 550}})

	// 65 + 15 + 80 + 170 + 10 + 10
	assert.Equal(t, 350, EstimatedDraw(cfg, PowerSupply))
	assert.Equal(t, 180, EstimatedDraw(cfg, GraphicsCard))
	assert.InDelta(t, 437.5, RequiredWattage(350), 1e-9)
}

func TestEdgeBetween(t *testing.T) {
	from, to, ok := EdgeBetween(Motherboard, CPU)
	require.True(t, ok)
	assert.Equal(t, CPU, from)
	assert.Equal(t, Motherboard, to)

	_, _, ok = EdgeBetween(GraphicsCard, RAM)
	assert.False(t, ok)
}

func TestIntentCacheKey(t *testing.T) {
	a := Intent{Source: "  PC Gaming 20tr "}
	b := Intent{Source: "pc gaming 20tr"}
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	refs := Intent{PreferredParts: []PartRef{{Name: "RTX 4060", Category: GraphicsCard, ByChipset: true}}}
	assert.Equal(t, "GraphicsCard:rtx 4060#chipset|", refs.CacheKey())
}
