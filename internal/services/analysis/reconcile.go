package analysis

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/redclay/finwire/internal/models"
	"github.com/ternarybob/arbor"
)

// normalizeCompanyPredictions accepts the two shapes models actually
// produce for company predictions: a list of {company, report} objects,
// or a mapping of company name to report text. A mapping is converted
// to a list preserving document key order. Anything else degrades to an
// empty list with a warning.
func normalizeCompanyPredictions(raw json.RawMessage, logger arbor.ILogger) []models.CompanyPrediction {
	if len(raw) == 0 {
		return []models.CompanyPrediction{}
	}

	var asList []models.CompanyPrediction
	if err := json.Unmarshal(raw, &asList); err == nil {
		if asList == nil {
			asList = []models.CompanyPrediction{}
		}
		return asList
	}

	if fromMap, ok := decodeOrderedMapping(raw); ok {
		return fromMap
	}

	logger.Warn().
		Str("shape", shapeOf(raw)).
		Msg("Unrecognized company_predictions shape, dropping")
	return []models.CompanyPrediction{}
}

// decodeOrderedMapping walks the token stream so mapping keys keep the
// order they appear in the document, which map[string]string would lose.
func decodeOrderedMapping(raw json.RawMessage) ([]models.CompanyPrediction, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	predictions := []models.CompanyPrediction{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		company, ok := keyTok.(string)
		if !ok {
			return nil, false
		}

		var report string
		if err := dec.Decode(&report); err != nil {
			return nil, false
		}

		predictions = append(predictions, models.CompanyPrediction{
			Company: company,
			Report:  report,
		})
	}

	return predictions, true
}

func shapeOf(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	default:
		return "scalar"
	}
}
