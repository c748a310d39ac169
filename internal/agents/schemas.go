// Package agents implements the specialized reasoning agents of the
// assessment pipeline: summarization, recommendation gathering,
// consolidation, the draft/validate assessment loop, and the report
// chat and what-if analysts. Every agent speaks to the backend through
// reasoning.LLMClient and never sees wire formats.
package agents

import (
	"encoding/json"

	"careguide/internal/types"
)

// JSON schemas for structured responses, in the OpenAPI subset the
// Gemini response_schema setting accepts. Built once at init.

var (
	patientSummarySchema string
	activityListSchema   string
	assessmentSchema     string
)

func mustMarshalSchema(schema map[string]interface{}) string {
	data, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func categoryEnum() []string {
	return []string{
		string(types.CategoryPreventiveScreening),
		string(types.CategoryVaccination),
		string(types.CategoryLifestyle),
		string(types.CategoryChronicDisease),
		string(types.CategoryMentalHealth),
		string(types.CategoryOther),
	}
}

func init() {
	patientSummarySchema = mustMarshalSchema(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"age":              map[string]interface{}{"type": "integer"},
			"sex":              map[string]interface{}{"type": "string"},
			"basic_summary":    map[string]interface{}{"type": "string"},
			"advanced_summary": map[string]interface{}{"type": "string"},
			"current_medications": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"basic_summary", "advanced_summary"},
	})

	activitySchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"activity_id":              map[string]interface{}{"type": "string"},
			"recommendation_short_str": map[string]interface{}{"type": "string"},
			"recommendation_long_str":  map[string]interface{}{"type": "string"},
			"frequency_short_str":      map[string]interface{}{"type": "string"},
			"category":                 map[string]interface{}{"type": "string", "enum": categoryEnum()},
			"source":                   map[string]interface{}{"type": "string"},
		},
		"required": []string{"recommendation_short_str", "recommendation_long_str", "frequency_short_str", "category", "source"},
	}

	activityListSchema = mustMarshalSchema(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"activities": map[string]interface{}{
				"type":  "array",
				"items": activitySchema,
			},
		},
		"required": []string{"activities"},
	})

	assessmentSchema = mustMarshalSchema(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"activity_id":              map[string]interface{}{"type": "string"},
			"recommendation_short_str": map[string]interface{}{"type": "string"},
			"recommendation_long_str":  map[string]interface{}{"type": "string"},
			"frequency_short_str":      map[string]interface{}{"type": "string"},
			"category":                 map[string]interface{}{"type": "string"},
			"status": map[string]interface{}{
				"type": "string",
				"enum": []string{
					string(types.StatusCompleted),
					string(types.StatusRecommended),
					string(types.StatusNeedsConfirmation),
				},
			},
			"urgency": map[string]interface{}{
				"type": "string",
				"enum": []string{
					string(types.UrgencyHigh),
					string(types.UrgencyMedium),
					string(types.UrgencyLow),
				},
			},
			"confidence_score":    map[string]interface{}{"type": "integer"},
			"supporting_evidence": map[string]interface{}{"type": "string"},
			"completion_date":     map[string]interface{}{"type": "string"},
			"user_input_questions": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"activity_id", "status", "urgency", "supporting_evidence"},
	})
}

// activityList is the decode target for every recommendation-shaped
// response.
type activityList struct {
	Activities []types.ActivityCandidate `json:"activities"`
}

// normalizeCandidates enforces the bounded-length and closed-category
// contracts on engine output.
func normalizeCandidates(cs []types.ActivityCandidate) []types.ActivityCandidate {
	out := make([]types.ActivityCandidate, 0, len(cs))
	for _, c := range cs {
		c.ShortDescription = types.TruncateField(c.ShortDescription, types.MaxShortDescriptionLen)
		c.Frequency = types.TruncateField(c.Frequency, types.MaxFrequencyLen)
		c.Category = types.NormalizeCategory(c.Category)
		out = append(out, c)
	}
	return out
}
