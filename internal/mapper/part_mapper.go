package mapper

import (
	"encoding/json"
	"fmt"

	"pc-autobuild-be/internal/model"
	"pc-autobuild-be/pkg/autobuild"

	"gorm.io/datatypes"
)

type PartMapper struct{}

func NewPartMapper() *PartMapper {
	return &PartMapper{}
}

func (m *PartMapper) ToDomain(mdl *model.Part) (autobuild.Part, error) {
	if mdl == nil {
		return autobuild.Part{}, nil
	}
	category, err := autobuild.ParseCategory(mdl.Category)
	if err != nil {
		return autobuild.Part{}, err
	}

	part := autobuild.Part{
		Name:           mdl.Name,
		Category:       category,
		Price:          mdl.Price,
		BenchmarkScore: mdl.BenchmarkScore,
		SalesVolume:    mdl.SalesVolume,
		Chipset:        mdl.Chipset,
	}
	if len(mdl.Specs) > 0 {
		specs, err := DecodeSpecs(mdl.Specs)
		if err != nil {
			return autobuild.Part{}, fmt.Errorf("part %q: %w", mdl.Name, err)
		}
		part.Specs = specs
	}
	return part, nil
}

func (m *PartMapper) ToDomains(models []*model.Part) ([]autobuild.Part, error) {
	parts := make([]autobuild.Part, 0, len(models))
	for _, mdl := range models {
		p, err := m.ToDomain(mdl)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func (m *PartMapper) ToModel(part autobuild.Part) (*model.Part, error) {
	specs, err := json.Marshal(part.Specs)
	if err != nil {
		return nil, err
	}
	return &model.Part{
		Category:       part.Category.String(),
		Name:           part.Name,
		Price:          part.Price,
		BenchmarkScore: part.BenchmarkScore,
		SalesVolume:    part.SalesVolume,
		Chipset:        part.Chipset,
		Specs:          datatypes.JSON(specs),
	}, nil
}

// DecodeSpecs reads a specs document. Catalog imports from graph databases
// carry 64-bit integers as {"low": int32, "high": int32} pairs; those are
// folded into plain numbers first.
func DecodeSpecs(raw []byte) (autobuild.Specs, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return autobuild.Specs{}, fmt.Errorf("decode specs: %w", err)
	}

	normalized, err := json.Marshal(NormalizeSplitInts(doc))
	if err != nil {
		return autobuild.Specs{}, err
	}

	var specs autobuild.Specs
	if err := json.Unmarshal(normalized, &specs); err != nil {
		return autobuild.Specs{}, fmt.Errorf("decode specs: %w", err)
	}
	return specs, nil
}

// NormalizeSplitInts walks a decoded JSON value and replaces every
// {"low", "high"} object with the integer it encodes.
func NormalizeSplitInts(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		if n, ok := splitInt(t); ok {
			return n
		}
		for k, child := range t {
			t[k] = NormalizeSplitInts(child)
		}
		return t
	case []interface{}:
		for i, child := range t {
			t[i] = NormalizeSplitInts(child)
		}
		return t
	default:
		return v
	}
}

func splitInt(m map[string]interface{}) (int64, bool) {
	if len(m) != 2 {
		return 0, false
	}
	low, okLow := m["low"].(float64)
	high, okHigh := m["high"].(float64)
	if !okLow || !okHigh {
		return 0, false
	}
	return int64(high)<<32 | int64(uint32(int32(low))), true
}
