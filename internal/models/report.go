package models

import (
	"time"
)

// CompanyPrediction is one entry of a report's per-company commentary.
type CompanyPrediction struct {
	Company string `json:"company"`
	Report  string `json:"report"`
}

// Report is one persisted market-analysis run. Created once per completed
// run (scheduled or manual), read-only thereafter except for deletion.
//
// The structured fields (NewsImpact, PolicyImpact, MarketPrediction,
// CompanyPredictions) are best-effort: when the model reply yields no
// recoverable JSON they stay empty while Narrative and ReasoningTrace are
// still populated.
type Report struct {
	ID                 string              `json:"id" badgerhold:"key"`
	CreatedAt          time.Time           `json:"created_at" badgerhold:"index"`
	NewsCount          int                 `json:"news_count"`
	TimeRange          string              `json:"time_range"`
	ReasoningTrace     string              `json:"reasoning,omitempty"`
	Narrative          string              `json:"analysis"`
	NewsImpact         string              `json:"news_impact,omitempty"`
	PolicyImpact       string              `json:"policy_impact,omitempty"`
	MarketPrediction   string              `json:"market_prediction,omitempty"`
	FocusedCompanies   []string            `json:"focused_companies"`
	CompanyPredictions []CompanyPrediction `json:"company_predictions"`
}

// Completion is the raw output pair of one LLM call. Reasoning is the
// model's intermediate reasoning text and may be empty.
type Completion struct {
	Reasoning string `json:"reasoning,omitempty"`
	Content   string `json:"content"`
}
