package autobuild

import (
	"fmt"
	"strings"
)

// Category is one of the eight hardware part types. The numeric order is the
// order in which the builder assigns categories.
type Category int

const (
	CPU Category = iota
	CPUCooler
	Motherboard
	GraphicsCard
	RAM
	InternalStorage
	Case
	PowerSupply

	categoryCount
)

// BuildOrder is the fixed evaluation order used by the builder.
var BuildOrder = [categoryCount]Category{
	CPU, CPUCooler, Motherboard, GraphicsCard, RAM, InternalStorage, Case, PowerSupply,
}

var categoryNames = [categoryCount]string{
	CPU:             "CPU",
	CPUCooler:       "CPUCooler",
	Motherboard:     "Motherboard",
	GraphicsCard:    "GraphicsCard",
	RAM:             "RAM",
	InternalStorage: "InternalStorage",
	Case:            "Case",
	PowerSupply:     "PowerSupply",
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

func (c Category) Valid() bool {
	return c >= 0 && c < categoryCount
}

// Required reports whether the category must be filled for a complete build.
// Every category is currently required.
func (c Category) Required() bool {
	return c.Valid()
}

// ParseCategory accepts the canonical names plus the "GPU" alias used by the
// intent extractor.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "GPU") {
		return GraphicsCard, nil
	}
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Strategy selects the sort objective of the candidate pools.
type Strategy string

const (
	StrategyCost        Strategy = "cost"
	StrategyPerformance Strategy = "performance"
	StrategyPopularity  Strategy = "popularity"
)

// AllStrategies in the order results are reported.
var AllStrategies = []Strategy{StrategyCost, StrategyPerformance, StrategyPopularity}

// Objective is the ordering applied to a range query.
type Objective string

const (
	ObjectivePrice     Objective = "price"     // ascending
	ObjectiveBenchmark Objective = "benchmark" // descending
	ObjectiveSales     Objective = "sales"     // descending
)

func (s Strategy) Objective() Objective {
	switch s {
	case StrategyPerformance:
		return ObjectiveBenchmark
	case StrategyPopularity:
		return ObjectiveSales
	default:
		return ObjectivePrice
	}
}

func (s Strategy) Valid() bool {
	return s == StrategyCost || s == StrategyPerformance || s == StrategyPopularity
}

func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// Purpose drives the budget weight table.
type Purpose string

const (
	PurposeGaming      Purpose = "gaming"
	PurposeWorkstation Purpose = "workstation"
)
