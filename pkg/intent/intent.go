// Package intent turns free text into an autobuild.Intent using an entity
// extractor (NER service or LLM).
package intent

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"pc-autobuild-be/pkg/autobuild"
)

// Entity labels produced by the extractors.
const (
	LabelPurpose         = "PURPOSE"
	LabelBudget          = "BUDGET"
	LabelCPU             = "CPU"
	LabelGPU             = "GPU"
	LabelGPUChipset      = "GPUChipset"
	LabelRAM             = "RAM"
	LabelMotherboard     = "Motherboard"
	LabelInternalStorage = "InternalStorage"
	LabelCPUCooler       = "CPUCooler"
	LabelPowerSupply     = "PowerSupply"
	LabelCase            = "Case"
)

// Entity is one labelled span of the input.
type Entity struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Extractor finds entities in free text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Entity, error)
}

var partLabels = map[string]autobuild.Category{
	LabelCPU:             autobuild.CPU,
	LabelGPU:             autobuild.GraphicsCard,
	LabelGPUChipset:      autobuild.GraphicsCard,
	LabelRAM:             autobuild.RAM,
	LabelMotherboard:     autobuild.Motherboard,
	LabelInternalStorage: autobuild.InternalStorage,
	LabelCPUCooler:       autobuild.CPUCooler,
	LabelPowerSupply:     autobuild.PowerSupply,
	LabelCase:            autobuild.Case,
}

// Parse assembles an intent from extracted entities. The first budget
// entity that parses wins; a missing budget is ErrInvalidIntent.
func Parse(text string, entities []Entity) (autobuild.Intent, error) {
	in := autobuild.Intent{Purpose: autobuild.PurposeGaming, Source: text}

	purposeSet := false
	seen := make(map[autobuild.PartRef]bool)
	for _, e := range entities {
		value := strings.TrimSpace(e.Value)
		if value == "" {
			continue
		}
		switch label := normalizeLabel(e.Label); label {
		case LabelPurpose:
			if !purposeSet {
				in.Purpose = ParsePurpose(value)
				purposeSet = true
			}
		case LabelBudget:
			if in.Budget > 0 {
				continue
			}
			if b, err := ParseBudget(value); err == nil {
				in.Budget = b
			}
		default:
			c, ok := partLabels[label]
			if !ok {
				continue
			}
			ref := autobuild.PartRef{Name: value, Category: c, ByChipset: label == LabelGPUChipset}
			if seen[ref] {
				continue
			}
			seen[ref] = true
			in.PreferredParts = append(in.PreferredParts, ref)
		}
	}

	if in.Budget <= 0 {
		return autobuild.Intent{}, fmt.Errorf("%w: %q", autobuild.ErrInvalidIntent, text)
	}
	return in, nil
}

func normalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	for _, known := range []string{LabelPurpose, LabelBudget, LabelGPUChipset} {
		if strings.EqualFold(label, known) {
			return known
		}
	}
	for known := range partLabels {
		if strings.EqualFold(label, known) {
			return known
		}
	}
	return label
}

var (
	millionUnit = regexp.MustCompile(`(?i)(?:^|[^\d.,])(\d+(?:[.,]\d+)*)\s*(?:triệu|trieu|tr)(?:$|[^\p{L}])`)
	separators  = regexp.MustCompile(`[.,]`)
	nonDigits   = regexp.MustCompile(`\D`)
)

// ParseBudget reads "20 triệu", "15.5tr" or "25,000,000đ" as VND. A number
// with more than one separator before a million unit is already a full amount
// ("25.000.000 tr").
func ParseBudget(value string) (int64, error) {
	if m := millionUnit.FindStringSubmatch(value); m != nil {
		number := m[1]
		if len(separators.FindAllString(number, -1)) > 1 {
			n, err := strconv.ParseInt(separators.ReplaceAllString(number, ""), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parse budget %q: %w", value, err)
			}
			return n, nil
		}

		f, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("parse budget %q: %w", value, err)
		}
		return int64(math.Round(f * 1_000_000)), nil
	}

	digits := nonDigits.ReplaceAllString(value, "")
	if digits == "" {
		return 0, fmt.Errorf("parse budget %q: no digits", value)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse budget %q: %w", value, err)
	}
	return n, nil
}

var workstationWords = []string{
	"đồ họa", "do hoa", "render", "workstation", "văn phòng", "van phong",
	"làm việc", "lam viec", "design", "thiết kế", "editing", "dựng phim",
}

// ParsePurpose maps a purpose mention onto a weight table. Anything that is
// not clearly a work machine is treated as gaming.
func ParsePurpose(value string) autobuild.Purpose {
	v := strings.ToLower(value)
	for _, w := range workstationWords {
		if strings.Contains(v, w) {
			return autobuild.PurposeWorkstation
		}
	}
	return autobuild.PurposeGaming
}

// Interpreter runs an extractor and parses its output.
type Interpreter struct {
	extractor Extractor
}

func NewInterpreter(extractor Extractor) *Interpreter {
	return &Interpreter{extractor: extractor}
}

// Interpret returns ErrExtraction when the extractor fails and
// ErrInvalidIntent when the text carries no budget.
func (i *Interpreter) Interpret(ctx context.Context, text string) (autobuild.Intent, error) {
	entities, err := i.extractor.Extract(ctx, text)
	if err != nil {
		return autobuild.Intent{}, fmt.Errorf("%w: %v", autobuild.ErrExtraction, err)
	}
	return Parse(text, entities)
}
