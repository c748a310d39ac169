package agents

import (
	"context"
	"fmt"

	"careguide/internal/logging"
	"careguide/internal/reasoning"
)

const whatIfSystemPrompt = `You are a health coach explaining the impact of completing one
preventive care activity. You receive the patient's report, the activity
in question, and the engagement score before and after marking it
completed.

Rules:
- Explain in 2-4 sentences what completing this activity would do for
  the patient's score and, more importantly, their health.
- Mention the concrete score change.
- Plain language, encouraging tone, no medical jargon.
- Do not invent clinical claims beyond what the report supports.`

// WhatIfAnalyst narrates the effect of completing a single activity on
// the engagement score. The score arithmetic itself is done by the
// scoring engine; this agent only explains the result.
type WhatIfAnalyst struct {
	llm reasoning.LLMClient
}

// NewWhatIfAnalyst constructs a WhatIfAnalyst.
func NewWhatIfAnalyst(llm reasoning.LLMClient) *WhatIfAnalyst {
	return &WhatIfAnalyst{llm: llm}
}

// Explain produces the narrative for one simulated completion. A failed
// reasoning call yields a plain numeric fallback so the caller always
// has something to show.
func (w *WhatIfAnalyst) Explain(ctx context.Context, reportJSON, activityName string, currentScore, newScore float64) string {
	prompt := fmt.Sprintf(
		"Health report:\n%s\n\nActivity under consideration: %s\nCurrent engagement score: %.1f\nScore if completed: %.1f",
		reportJSON, activityName, currentScore, newScore)

	reply, err := w.llm.CompleteWithSystem(ctx, whatIfSystemPrompt, prompt)
	if err != nil {
		logging.ReasoningError("what-if explanation failed: %v", err)
		return fmt.Sprintf("Completing %q would raise your engagement score from %.1f to %.1f.",
			activityName, currentScore, newScore)
	}
	return reply
}
