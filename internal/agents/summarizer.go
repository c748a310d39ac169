package agents

import (
	"context"
	"fmt"

	"careguide/internal/logging"
	"careguide/internal/reasoning"
	"careguide/internal/types"
)

// DefaultSummaryInputLimit caps how much of the redacted record is sent
// to the summarization prompt.
const DefaultSummaryInputLimit = 3000

const summarizerSystemPrompt = `You are a clinical summarization assistant. You receive a de-identified
patient health record and produce a structured summary of it.

Rules:
- Extract the patient's age (integer) and sex if stated. Omit them if absent.
- basic_summary: 2-3 sentences a patient could read, in plain language.
- advanced_summary: a clinically precise paragraph covering conditions,
  history, labs, and relevant findings.
- current_medications: list each medication mentioned, one entry per drug.
- Use only information present in the record. Never invent findings.
- Placeholder tokens such as [NAME] or [DATE] are redacted identifiers;
  treat them as opaque and do not speculate about their contents.

Respond with JSON only.`

// Summarizer turns a redacted patient record into a PatientSummary. A
// summarization failure is fatal to the run; there is no fallback.
type Summarizer struct {
	llm        reasoning.LLMClient
	inputLimit int
}

// NewSummarizer constructs a Summarizer. inputLimit <= 0 selects the
// default cap.
func NewSummarizer(llm reasoning.LLMClient, inputLimit int) *Summarizer {
	if inputLimit <= 0 {
		inputLimit = DefaultSummaryInputLimit
	}
	return &Summarizer{llm: llm, inputLimit: inputLimit}
}

// Summarize produces the patient summary for a redacted record.
func (s *Summarizer) Summarize(ctx context.Context, redactedRecord string) (types.PatientSummary, error) {
	record := types.TruncateField(redactedRecord, s.inputLimit)

	prompt := fmt.Sprintf("Patient health record (de-identified):\n\n%s", record)
	raw, err := s.llm.CompleteWithSchema(ctx, summarizerSystemPrompt, prompt, patientSummarySchema)
	if err != nil {
		return types.PatientSummary{}, fmt.Errorf("summarization request: %w", err)
	}

	var summary types.PatientSummary
	if err := reasoning.DecodeJSON(raw, &summary); err != nil {
		return types.PatientSummary{}, fmt.Errorf("summarization response: %w", err)
	}
	if summary.BasicSummary == "" && summary.AdvancedSummary == "" {
		return types.PatientSummary{}, fmt.Errorf("summarization response: empty summary")
	}

	logging.Reasoning("summarized record: age=%v sex=%q medications=%d",
		ageString(summary.Age), summary.Sex, len(summary.CurrentMedications))
	return summary, nil
}

func ageString(age *int) string {
	if age == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *age)
}
