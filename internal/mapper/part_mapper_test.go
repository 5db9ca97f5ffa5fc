package mapper

import (
	"testing"

	"pc-autobuild-be/internal/model"
	"pc-autobuild-be/pkg/autobuild"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodeSpecsFoldsSplitIntegers(t *testing.T) {
	raw := []byte(`{
		"memory_slots": {"low": 4, "high": 0},
		"max_memory_gb": {"low": 128, "high": 0},
		"pcie_x16": 1,
		"m2_slots": ["M.2 2280 PCIe 4.0"],
		"wattage": {"low": -1, "high": 0}
	}`)

	specs, err := DecodeSpecs(raw)
	require.NoError(t, err)

	assert.Equal(t, 4, specs.MemorySlots)
	assert.Equal(t, 128, specs.MaxMemoryGB)
	assert.Equal(t, 1, specs.PCIeX16)
	assert.Equal(t, []string{"M.2 2280 PCIe 4.0"}, specs.M2Slots)
	// low is a signed 32-bit half
	assert.Equal(t, 1<<32-1, specs.Wattage)
}

func TestNormalizeSplitInts(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"plain number", float64(3), float64(3)},
		{"split int", map[string]interface{}{"low": float64(7), "high": float64(1)}, int64(1<<32 | 7)},
		{"extra keys stay an object", map[string]interface{}{"low": float64(1), "high": float64(2), "x": "y"},
			map[string]interface{}{"low": float64(1), "high": float64(2), "x": "y"}},
		{"nested in array", []interface{}{map[string]interface{}{"low": float64(2), "high": float64(0)}}, []interface{}{int64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSplitInts(tt.in))
		})
	}
}

func TestPartMapperRoundTrip(t *testing.T) {
	m := NewPartMapper()
	part := autobuild.Part{
		Name:     "RTX 4060 Ventus",
		Category: autobuild.GraphicsCard,
		Price:    7_600_000,
		Chipset:  "RTX 4060",
		Specs:    autobuild.Specs{TDP: 115, Interface: autobuild.InterfacePCIeX16, SlotWidth: 2},
	}

	mdl, err := m.ToModel(part)
	require.NoError(t, err)
	assert.Equal(t, "GraphicsCard", mdl.Category)

	back, err := m.ToDomain(mdl)
	require.NoError(t, err)
	assert.Equal(t, part, back)
}

func TestPartMapperRejectsUnknownCategory(t *testing.T) {
	_, err := NewPartMapper().ToDomain(&model.Part{Name: "x", Category: "Monitor", Specs: datatypes.JSON(`{}`)})
	assert.Error(t, err)
}
