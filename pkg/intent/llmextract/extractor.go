// Package llmextract labels build requests with a chat model when no NER
// service is deployed.
package llmextract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pc-autobuild-be/pkg/intent"
	"pc-autobuild-be/pkg/llm"
)

const systemPrompt = `You label PC build requests written in Vietnamese or English.
Return only JSON of the form {"entities":[{"value":"...","label":"..."}]}.
Allowed labels: PURPOSE, BUDGET, CPU, GPU, GPUChipset, RAM, Motherboard, InternalStorage, CPUCooler, PowerSupply, Case.
Use GPUChipset for a graphics chip without a board vendor (for example "RTX 4060").
Copy every value verbatim from the request. Omit anything you are unsure about.`

type Extractor struct {
	provider llm.LLMProvider
	opts     []llm.Option
}

var _ intent.Extractor = &Extractor{}

func New(provider llm.LLMProvider, opts ...llm.Option) *Extractor {
	return &Extractor{
		provider: provider,
		opts:     append([]llm.Option{llm.WithJSON(), llm.WithTemperature(0)}, opts...),
	}
}

type answer struct {
	Entities []intent.Entity `json:"entities"`
}

func (e *Extractor) Extract(ctx context.Context, text string) ([]intent.Entity, error) {
	raw, err := e.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	}, e.opts...)
	if err != nil {
		return nil, err
	}

	var out answer
	if err := json.Unmarshal([]byte(trimFence(raw)), &out); err != nil {
		return nil, fmt.Errorf("decode llm answer: %w", err)
	}

	// Models paraphrase; keep only spans that really occur in the request.
	lower := strings.ToLower(text)
	kept := out.Entities[:0]
	for _, ent := range out.Entities {
		v := strings.TrimSpace(ent.Value)
		if v == "" || !strings.Contains(lower, strings.ToLower(v)) {
			continue
		}
		kept = append(kept, intent.Entity{Value: v, Label: ent.Label})
	}
	return kept, nil
}

// trimFence strips a ```json fence some models add despite JSON mode.
func trimFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
