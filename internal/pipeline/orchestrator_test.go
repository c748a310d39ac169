package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"careguide/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go.opencensus.io (via google.golang.org/genai) starts a
		// background worker in its package init; it is not a leak
		// from the code under test.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

// scriptedLLM routes reasoning calls by inspecting the system prompt
// and schema, mirroring how the stages actually differ on the wire.
type scriptedLLM struct {
	summaryErr       error
	generalErr       error
	conditionErr     error
	consolidationErr error
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWithSystem(ctx, "", prompt)
}

func (s *scriptedLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "ok", nil
}

func (s *scriptedLLM) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	switch {
	case strings.Contains(jsonSchema, "basic_summary"):
		if s.summaryErr != nil {
			return "", s.summaryErr
		}
		return `{"age":55,"sex":"male","basic_summary":"55 year old male with hypertension.","advanced_summary":"HTN on lisinopril."}`, nil

	case strings.Contains(userPrompt, "Recommendations to consolidate"):
		if s.consolidationErr != nil {
			return "", s.consolidationErr
		}
		return activitiesPayload(
			types.ActivityCandidate{ShortDescription: "Colonoscopy", Category: types.CategoryPreventiveScreening},
			types.ActivityCandidate{ShortDescription: "Blood pressure check", Category: types.CategoryChronicDisease},
		), nil

	case strings.Contains(jsonSchema, "confidence_score"):
		if strings.Contains(userPrompt, "Draft assessment to verify") {
			return `{"activity_id":"x","status":"Completed","urgency":"High","confidence_score":90,"supporting_evidence":"verified"}`, nil
		}
		return `{"activity_id":"x","status":"Completed","urgency":"High","supporting_evidence":"noted in record"}`, nil

	case strings.Contains(systemPrompt, "chronic condition"):
		if s.conditionErr != nil {
			return "", s.conditionErr
		}
		return activitiesPayload(types.ActivityCandidate{ShortDescription: "Blood pressure check", Category: types.CategoryChronicDisease}), nil

	default:
		if s.generalErr != nil {
			return "", s.generalErr
		}
		return activitiesPayload(types.ActivityCandidate{ShortDescription: "Colonoscopy", Category: types.CategoryPreventiveScreening}), nil
	}
}

func activitiesPayload(cs ...types.ActivityCandidate) string {
	data, _ := json.Marshal(map[string][]types.ActivityCandidate{"activities": cs})
	return string(data)
}

func fastOptions() Options {
	return Options{AssessmentInterval: time.Millisecond}
}

func TestRunHappyPath(t *testing.T) {
	o := New(&scriptedLLM{}, fastOptions())

	report, err := o.Run(context.Background(), "Patient John Smith, DOB 03/12/1970, has hypertension.")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "55 year old male with hypertension.", report.PatientSummary)
	assert.Equal(t, 2, report.TotalActivities)
	assert.Equal(t, 2, report.CompletedCount)
	assert.Zero(t, report.RecommendedCount)
	assert.Zero(t, report.NeedsConfirmationCount)
	assert.InDelta(t, 100.0, report.HealthEngagementScore, 0.001)

	for _, a := range report.ActivityAssessments {
		_, err := uuid.Parse(a.ActivityID)
		assert.NoError(t, err, "assessment must carry the consolidated UUID")
	}
}

func TestRunSummarizationFailureIsFatal(t *testing.T) {
	o := New(&scriptedLLM{summaryErr: errors.New("backend down")}, fastOptions())

	report, err := o.Run(context.Background(), "record")
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSummarization))
}

func TestRunConsolidationFailureIsFatal(t *testing.T) {
	o := New(&scriptedLLM{consolidationErr: errors.New("backend down")}, fastOptions())

	report, err := o.Run(context.Background(), "record")
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConsolidation))
}

func TestRunSurvivesFailedRecommendationSource(t *testing.T) {
	o := New(&scriptedLLM{generalErr: errors.New("backend down")}, fastOptions())

	report, err := o.Run(context.Background(), "record")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 2, report.TotalActivities, "remaining sources still feed consolidation")
}

func TestRunFullAssessmentUnifiesSources(t *testing.T) {
	llm := &recordingLLM{}
	o := New(llm, fastOptions())

	_, err := o.RunFullAssessment(context.Background(), "First visit notes.", "  ", "Lab results.")
	require.NoError(t, err)

	assert.Contains(t, llm.summaryPrompt, "--- Record 1 ---")
	assert.Contains(t, llm.summaryPrompt, "First visit notes.")
	assert.Contains(t, llm.summaryPrompt, "--- Record 3 ---")
	assert.Contains(t, llm.summaryPrompt, "Lab results.")
	assert.NotContains(t, llm.summaryPrompt, "--- Record 2 ---", "blank fragments are dropped")
}

// recordingLLM captures the summarization prompt and answers every
// other call like the scripted client.
type recordingLLM struct {
	scriptedLLM
	summaryPrompt string
}

func (r *recordingLLM) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	if strings.Contains(jsonSchema, "basic_summary") {
		r.summaryPrompt = userPrompt
	}
	return r.scriptedLLM.CompleteWithSchema(ctx, systemPrompt, userPrompt, jsonSchema)
}

// cancellingLLM cancels the run's context on the first recommendation
// call and fails it, like an interrupt arriving mid-gather.
type cancellingLLM struct {
	scriptedLLM
	cancel context.CancelFunc
}

func (c *cancellingLLM) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	if strings.Contains(jsonSchema, "activities") && !strings.Contains(userPrompt, "Recommendations to consolidate") {
		c.cancel()
		return "", ctx.Err()
	}
	return c.scriptedLLM.CompleteWithSchema(ctx, systemPrompt, userPrompt, jsonSchema)
}

func TestRunCancelledDuringGatheringIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llm := &cancellingLLM{cancel: cancel}
	o := New(llm, fastOptions())

	report, err := o.Run(ctx, "record")
	assert.Nil(t, report, "an interrupted run must not produce an empty report")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(&scriptedLLM{}, Options{AssessmentInterval: time.Hour})
	report, err := o.Run(ctx, "record")
	assert.Nil(t, report)
	assert.Error(t, err)
}
