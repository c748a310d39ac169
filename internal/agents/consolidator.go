package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"careguide/internal/logging"
	"careguide/internal/reasoning"
	"careguide/internal/types"
)

const consolidatorSystemPrompt = `You are a clinical deduplication assistant. You receive preventive care
recommendations collected from several sources. The same underlying
activity often appears more than once with different wording.

Rules:
- Merge entries that describe the same underlying activity into one,
  keeping the clearest wording.
- When merged entries disagree on frequency, prefer the most frequent
  cadence, or a neutral term like "Varies" or "As directed". Never
  concatenate frequencies.
- Keep entries that are genuinely distinct, even within one category.
- When merged entries cite different sources, keep the most
  authoritative source.
- Do not invent activities that are not in the input.
- Leave activity_id empty; identifiers are assigned after merging.

Respond with JSON only.`

// Consolidator merges candidate lists from all recommendation sources
// into one deduplicated list. A consolidation failure is fatal to the
// run. Every surviving activity receives a fresh unique identifier here;
// identifiers carried by the inputs are discarded.
type Consolidator struct {
	llm reasoning.LLMClient
}

// NewConsolidator constructs a Consolidator.
func NewConsolidator(llm reasoning.LLMClient) *Consolidator {
	return &Consolidator{llm: llm}
}

// Consolidate flattens the given lists and asks the reasoning engine to
// merge duplicates. Empty input returns an empty list without a
// reasoning call.
func (c *Consolidator) Consolidate(ctx context.Context, lists ...[]types.ActivityCandidate) ([]types.ActivityCandidate, error) {
	var combined []types.ActivityCandidate
	for _, l := range lists {
		combined = append(combined, l...)
	}
	if len(combined) == 0 {
		logging.Reasoning("consolidation skipped: no candidates from any source")
		return []types.ActivityCandidate{}, nil
	}

	input, err := json.MarshalIndent(activityList{Activities: combined}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("consolidation input: %w", err)
	}

	prompt := fmt.Sprintf("Recommendations to consolidate:\n\n%s", input)
	raw, err := c.llm.CompleteWithSchema(ctx, consolidatorSystemPrompt, prompt, activityListSchema)
	if err != nil {
		return nil, fmt.Errorf("consolidation request: %w", err)
	}

	var list activityList
	if err := reasoning.DecodeJSON(raw, &list); err != nil {
		return nil, fmt.Errorf("consolidation response: %w", err)
	}

	merged := normalizeCandidates(list.Activities)
	for i := range merged {
		merged[i].ActivityID = uuid.NewString()
	}

	logging.Reasoning("consolidated %d candidates into %d activities", len(combined), len(merged))
	return merged, nil
}
