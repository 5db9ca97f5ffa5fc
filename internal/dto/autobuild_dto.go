package dto

import (
	"pc-autobuild-be/pkg/autobuild"
)

type ResolveRequest struct {
	Text       string   `json:"text" validate:"required,min=3,max=1000"`
	Strategies []string `json:"strategies" validate:"omitempty,max=3,dive,oneof=cost performance popularity"`
}

type ResolveOneRequest struct {
	Text string `json:"text" validate:"required,min=3,max=1000"`
}

type PartRefResponse struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	ByChipset bool   `json:"by_chipset,omitempty"`
}

type IntentResponse struct {
	Purpose        autobuild.Purpose `json:"purpose"`
	Budget         int64             `json:"budget"`
	PreferredParts []PartRefResponse `json:"preferred_parts"`
}

type BuildResponse struct {
	Configuration autobuild.Configuration `json:"configuration"`
	TotalCost     int64                   `json:"total_cost"`
	Complete      bool                    `json:"complete"`
	Missing       []string                `json:"missing,omitempty"`
}

type StrategyResultResponse struct {
	Strategy       autobuild.Strategy `json:"strategy"`
	Configurations []BuildResponse    `json:"configurations"`
	// Best is the most complete partial build, set only when the strategy
	// found no complete configuration.
	Best      *BuildResponse `json:"best,omitempty"`
	Exhausted bool           `json:"exhausted"`
	Attempts  int            `json:"attempts"`
}

type ResolveManyResponse struct {
	RequesterID string                   `json:"requester_id"`
	Intent      IntentResponse           `json:"intent"`
	Results     []StrategyResultResponse `json:"results"`
}

type ResolveOneResponse struct {
	RequesterID string             `json:"requester_id"`
	Intent      IntentResponse     `json:"intent"`
	Strategy    autobuild.Strategy `json:"strategy"`
	Build       BuildResponse      `json:"build"`
	Attempts    int                `json:"attempts"`
	Increases   int                `json:"budget_increases"`
	FinalBudget int64              `json:"final_budget"`
}
