package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSONPattern matches the first fenced code block, with or
// without a json language tag.
var fencedJSONPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ParsedAnalysis holds the structured fields recovered from a model
// response. Absent keys stay zero. CompanyPredictions is kept raw so
// the reconciler can accept both list and mapping shapes.
type ParsedAnalysis struct {
	NewsImpact         string          `json:"news_impact"`
	PolicyImpact       string          `json:"policy_impact"`
	MarketPrediction   string          `json:"market_prediction"`
	CompanyPredictions json.RawMessage `json:"company_predictions"`
}

// ExtractJSON recovers a JSON object from free-form model output. It
// tries the first fenced code block, then the span from the first "{"
// to the last "}". Returns nil when neither yields a valid object;
// parse failure is never an error.
func ExtractJSON(content string) *ParsedAnalysis {
	if match := fencedJSONPattern.FindStringSubmatch(content); match != nil {
		if parsed := tryParse(match[1]); parsed != nil {
			return parsed
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		if parsed := tryParse(content[start : end+1]); parsed != nil {
			return parsed
		}
	}

	return nil
}

func tryParse(candidate string) *ParsedAnalysis {
	var parsed ParsedAnalysis
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil
	}
	return &parsed
}
