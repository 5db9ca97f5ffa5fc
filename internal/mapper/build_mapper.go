package mapper

import (
	"pc-autobuild-be/internal/dto"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/diversify"
)

type BuildMapper struct{}

func NewBuildMapper() *BuildMapper {
	return &BuildMapper{}
}

func (m *BuildMapper) ToIntentResponse(in autobuild.Intent) dto.IntentResponse {
	refs := make([]dto.PartRefResponse, 0, len(in.PreferredParts))
	for _, ref := range in.PreferredParts {
		refs = append(refs, dto.PartRefResponse{
			Name:      ref.Name,
			Category:  ref.Category.String(),
			ByChipset: ref.ByChipset,
		})
	}
	return dto.IntentResponse{
		Purpose:        in.Purpose,
		Budget:         in.Budget,
		PreferredParts: refs,
	}
}

func (m *BuildMapper) ToBuildResponse(cfg autobuild.Configuration) dto.BuildResponse {
	res := dto.BuildResponse{
		Configuration: cfg,
		TotalCost:     cfg.TotalCost(),
		Complete:      cfg.IsComplete(),
	}
	for _, c := range cfg.Missing() {
		res.Missing = append(res.Missing, c.String())
	}
	return res
}

// ToStrategyResults keeps the order of strategies as requested.
func (m *BuildMapper) ToStrategyResults(strategies []autobuild.Strategy, results map[autobuild.Strategy]diversify.StrategyResult) []dto.StrategyResultResponse {
	out := make([]dto.StrategyResultResponse, 0, len(strategies))
	for _, s := range strategies {
		r, ok := results[s]
		if !ok {
			continue
		}
		item := dto.StrategyResultResponse{
			Strategy:       s,
			Configurations: make([]dto.BuildResponse, 0, len(r.Configurations)),
			Exhausted:      r.Exhausted,
			Attempts:       r.Attempts,
		}
		for _, cfg := range r.Configurations {
			item.Configurations = append(item.Configurations, m.ToBuildResponse(cfg))
		}
		if len(r.Configurations) == 0 {
			best := m.ToBuildResponse(r.Best)
			item.Best = &best
		}
		out = append(out, item)
	}
	return out
}
