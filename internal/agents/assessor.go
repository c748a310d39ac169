package agents

import (
	"context"
	"encoding/json"

	"careguide/internal/logging"
	"careguide/internal/reasoning"
	"careguide/internal/types"
)

// DraftErrorEvidence is the supporting evidence recorded when the draft
// step fails and the default assessment is used instead.
const DraftErrorEvidence = "Error during initial assessment."

// validationConfidenceThreshold is the validator confidence below which
// the validator's corrected assessment replaces the draft.
const validationConfidenceThreshold = 70

const draftAssessorSystemPrompt = `You are a clinical assessment assistant. You receive one recommended
preventive care activity and a de-identified patient health record.
Determine the patient's standing on that activity.

Rules:
- status "Completed": the record shows the activity was done within its
  recommended frequency window.
- status "Needs user confirmation": the record is ambiguous or silent in
  a way only the patient can resolve. Include 1-3 specific questions in
  user_input_questions that would resolve the ambiguity.
- status "Recommended": the record shows the activity has not been done
  or is overdue.
- urgency: High for overdue items with direct clinical risk, Medium for
  routine gaps, Low for optional or marginal items.
- supporting_evidence: quote or closely paraphrase the record text the
  decision rests on. If the record is silent, say so.
- completion_date: only when the record states one.
- Echo the activity fields you were given.

Respond with JSON only.`

const validatorSystemPrompt = `You are a clinical quality reviewer. You receive a patient record, one
recommended activity, and a draft assessment of that activity. Verify
the draft against the record.

Rules:
- confidence_score: 0-100, your confidence that the draft's status,
  urgency, and evidence are correct for this record.
- Return the assessment as you believe it should read. If the draft is
  correct, return it unchanged. If it is wrong, return the corrected
  status, urgency, supporting_evidence, and any user_input_questions.
- A "Needs user confirmation" status must carry at least one question.
- supporting_evidence must be grounded in the record, never invented.

Respond with JSON only.`

// Assessor runs the two-step draft/validate loop for one activity.
// Assess is total: every failure path degrades to a usable assessment
// instead of an error, so one bad activity never sinks the run.
type Assessor struct {
	llm reasoning.LLMClient
}

// NewAssessor constructs an Assessor.
func NewAssessor(llm reasoning.LLMClient) *Assessor {
	return &Assessor{llm: llm}
}

// Assess evaluates one candidate against the redacted patient record.
//
// A failed draft yields the default assessment (Recommended, Medium
// urgency), which still goes through the validation step so the
// validator can correct it against the record. A failed validation
// keeps whatever draft it was given. In every branch the candidate's
// identifying fields are restored onto the result before it is
// returned.
func (a *Assessor) Assess(ctx context.Context, activity types.ActivityCandidate, redactedRecord string) types.ActivityAssessment {
	draft, err := a.draft(ctx, activity, redactedRecord)
	if err != nil {
		logging.AssessmentError("draft failed for activity %s (%s), validating the default: %v",
			activity.ActivityID, activity.ShortDescription, err)
		draft = defaultAssessment().WithCandidateFields(activity)
	}

	final, err := a.validate(ctx, activity, draft, redactedRecord)
	if err != nil {
		logging.AssessmentWarn("validation failed for activity %s, keeping draft: %v",
			activity.ActivityID, err)
		return draft.WithCandidateFields(activity)
	}

	return final.WithCandidateFields(activity)
}

func (a *Assessor) draft(ctx context.Context, activity types.ActivityCandidate, record string) (types.ActivityAssessment, error) {
	prompt, err := assessmentPrompt(activity, record, nil)
	if err != nil {
		return types.ActivityAssessment{}, err
	}

	raw, err := a.llm.CompleteWithSchema(ctx, draftAssessorSystemPrompt, prompt, assessmentSchema)
	if err != nil {
		return types.ActivityAssessment{}, err
	}

	var draft types.ActivityAssessment
	if err := reasoning.DecodeJSON(raw, &draft); err != nil {
		return types.ActivityAssessment{}, err
	}

	logging.Assessment("draft for activity %s: status=%q urgency=%q",
		activity.ActivityID, draft.Status, draft.Urgency)
	return draft, nil
}

func (a *Assessor) validate(ctx context.Context, activity types.ActivityCandidate, draft types.ActivityAssessment, record string) (types.ActivityAssessment, error) {
	prompt, err := assessmentPrompt(activity, record, &draft)
	if err != nil {
		return types.ActivityAssessment{}, err
	}

	raw, err := a.llm.CompleteWithSchema(ctx, validatorSystemPrompt, prompt, assessmentSchema)
	if err != nil {
		return types.ActivityAssessment{}, err
	}

	var validated types.ActivityAssessment
	if err := reasoning.DecodeJSON(raw, &validated); err != nil {
		return types.ActivityAssessment{}, err
	}

	// A low-confidence verdict means the validator disagrees with the
	// draft; its corrected assessment wins. A high-confidence verdict
	// keeps the draft and records the confidence.
	if validated.ConfidenceScore != nil && *validated.ConfidenceScore < validationConfidenceThreshold {
		logging.Assessment("validator replaced draft for activity %s: confidence=%d status=%q",
			activity.ActivityID, *validated.ConfidenceScore, validated.Status)
		return validated, nil
	}

	draft.ConfidenceScore = validated.ConfidenceScore
	logging.Assessment("validator confirmed draft for activity %s", activity.ActivityID)
	return draft, nil
}

// defaultAssessment is the degraded result used when the draft step
// fails outright.
func defaultAssessment() types.ActivityAssessment {
	return types.ActivityAssessment{
		Status:             types.StatusRecommended,
		Urgency:            types.UrgencyMedium,
		SupportingEvidence: DraftErrorEvidence,
	}
}

func assessmentPrompt(activity types.ActivityCandidate, record string, draft *types.ActivityAssessment) (string, error) {
	activityJSON, err := json.MarshalIndent(activity, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := "Activity:\n" + string(activityJSON) + "\n\nPatient health record (de-identified):\n\n" + record
	if draft != nil {
		draftJSON, err := json.MarshalIndent(draft, "", "  ")
		if err != nil {
			return "", err
		}
		prompt += "\n\nDraft assessment to verify:\n" + string(draftJSON)
	}
	return prompt, nil
}
