package agents

import (
	"context"
	"fmt"
	"strings"

	"careguide/internal/guidelines"
	"careguide/internal/logging"
	"careguide/internal/reasoning"
	"careguide/internal/types"
)

// DefaultGuidelinePromptLimit caps how many filtered guidelines are
// inlined into the guideline-recommendation prompt.
const DefaultGuidelinePromptLimit = 15

const generalRecommenderSystemPrompt = `You are a preventive care advisor. Given a structured patient summary,
recommend general preventive health activities appropriate for the
patient's age and sex: screenings, vaccinations, and lifestyle measures
that apply broadly to their demographic group.

Rules:
- Recommend 5 to 10 activities.
- recommendation_short_str: at most 150 characters.
- frequency_short_str: at most 120 characters (e.g. "Annually", "Every 10 years").
- category must be one of: Preventive Screening, Vaccination,
  Lifestyle & Wellness, Chronic Disease Management, Mental Health, Other.
- source: the guideline body or standard of care behind the recommendation.
- Leave activity_id empty.

Respond with JSON only.`

const conditionRecommenderSystemPrompt = `You are a preventive care advisor specializing in chronic condition
management. Given a structured patient summary, recommend preventive
activities that target the patient's specific diagnosed conditions,
medications, and risk factors. Do not repeat generic age-based
screenings; focus on condition-specific monitoring and management.

Rules:
- Recommend only activities tied to a condition or medication in the summary.
- If the summary mentions no conditions, return an empty activities list.
- recommendation_short_str: at most 150 characters.
- frequency_short_str: at most 120 characters.
- category must be one of: Preventive Screening, Vaccination,
  Lifestyle & Wellness, Chronic Disease Management, Mental Health, Other.
- source: the clinical rationale or guideline behind the recommendation.
- Leave activity_id empty.

Respond with JSON only.`

const guidelineRecommenderSystemPrompt = `You are a preventive care advisor working from published screening
guidelines. You receive a patient summary and a list of guidelines that
already passed a demographic filter. Select the guidelines that apply to
this specific patient and turn each into a recommended activity.

Rules:
- Only produce activities backed by one of the provided guidelines.
- Prefer grade A and grade B recommendations.
- recommendation_short_str: at most 150 characters.
- frequency_short_str: at most 120 characters.
- category must be one of: Preventive Screening, Vaccination,
  Lifestyle & Wellness, Chronic Disease Management, Mental Health, Other.
- source: the title of the guideline the activity came from.
- Leave activity_id empty.

Respond with JSON only.`

// Recommender gathers activity candidates from the three
// recommendation sources. Each method is independent; a failure in one
// source never blocks the others.
type Recommender struct {
	llm                  reasoning.LLMClient
	guidelinePromptLimit int
}

// NewRecommender constructs a Recommender. guidelinePromptLimit <= 0
// selects the default cap.
func NewRecommender(llm reasoning.LLMClient, guidelinePromptLimit int) *Recommender {
	if guidelinePromptLimit <= 0 {
		guidelinePromptLimit = DefaultGuidelinePromptLimit
	}
	return &Recommender{llm: llm, guidelinePromptLimit: guidelinePromptLimit}
}

// RecommendGeneral proposes demographic-appropriate preventive
// activities.
func (r *Recommender) RecommendGeneral(ctx context.Context, summary types.PatientSummary) ([]types.ActivityCandidate, error) {
	return r.recommend(ctx, generalRecommenderSystemPrompt, summaryPromptBlock(summary), "general")
}

// RecommendConditionSpecific proposes activities targeting the
// patient's diagnosed conditions.
func (r *Recommender) RecommendConditionSpecific(ctx context.Context, summary types.PatientSummary) ([]types.ActivityCandidate, error) {
	return r.recommend(ctx, conditionRecommenderSystemPrompt, summaryPromptBlock(summary), "condition-specific")
}

// RecommendFromGuidelines proposes activities grounded in the filtered
// guideline set. An empty guideline set yields no candidates and no
// reasoning call.
func (r *Recommender) RecommendFromGuidelines(ctx context.Context, summary types.PatientSummary, gs []guidelines.Guideline) ([]types.ActivityCandidate, error) {
	if len(gs) == 0 {
		logging.Guidelines("no guidelines after filtering, skipping guideline recommendations")
		return nil, nil
	}
	if len(gs) > r.guidelinePromptLimit {
		gs = gs[:r.guidelinePromptLimit]
	}

	var b strings.Builder
	b.WriteString(summaryPromptBlock(summary))
	b.WriteString("\n\nApplicable guidelines:\n")
	for i, g := range gs {
		fmt.Fprintf(&b, "%d. [grade %s] %s (population: %s)\n   %s\n",
			i+1, g.Grade, g.Title, g.Population, g.Description)
	}

	return r.recommend(ctx, guidelineRecommenderSystemPrompt, b.String(), "guideline")
}

func (r *Recommender) recommend(ctx context.Context, systemPrompt, userPrompt, source string) ([]types.ActivityCandidate, error) {
	raw, err := r.llm.CompleteWithSchema(ctx, systemPrompt, userPrompt, activityListSchema)
	if err != nil {
		return nil, fmt.Errorf("%s recommendations request: %w", source, err)
	}

	var list activityList
	if err := reasoning.DecodeJSON(raw, &list); err != nil {
		return nil, fmt.Errorf("%s recommendations response: %w", source, err)
	}

	candidates := normalizeCandidates(list.Activities)
	logging.Reasoning("%s recommender produced %d candidates", source, len(candidates))
	return candidates, nil
}

// summaryPromptBlock renders a PatientSummary for inclusion in a
// recommendation prompt.
func summaryPromptBlock(s types.PatientSummary) string {
	var b strings.Builder
	b.WriteString("Patient summary:\n")
	if s.Age != nil {
		fmt.Fprintf(&b, "- Age: %d\n", *s.Age)
	}
	if s.Sex != "" {
		fmt.Fprintf(&b, "- Sex: %s\n", s.Sex)
	}
	if len(s.CurrentMedications) > 0 {
		fmt.Fprintf(&b, "- Current medications: %s\n", strings.Join(s.CurrentMedications, ", "))
	}
	fmt.Fprintf(&b, "- Overview: %s\n", s.BasicSummary)
	fmt.Fprintf(&b, "- Clinical detail: %s", s.AdvancedSummary)
	return b.String()
}
