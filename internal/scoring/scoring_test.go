package scoring

import (
	"testing"

	"careguide/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestScoreEmpty(t *testing.T) {
	got := Score(nil)
	assert.Equal(t, Result{Score: 0.0, EarnedPoints: 0, TotalPossible: 0}, got)

	got = Score([]types.ActivityAssessment{})
	assert.Equal(t, Result{}, got)
}

func TestScoreSingleHighCompleted(t *testing.T) {
	got := Score([]types.ActivityAssessment{
		{Status: types.StatusCompleted, Urgency: types.UrgencyHigh},
	})
	assert.Equal(t, 100.0, got.Score)
	assert.Equal(t, 3.0, got.EarnedPoints)
	assert.Equal(t, 3, got.TotalPossible)
}

func TestScoreHighCompletedPlusLowRecommended(t *testing.T) {
	got := Score([]types.ActivityAssessment{
		{Status: types.StatusCompleted, Urgency: types.UrgencyHigh},
		{Status: types.StatusRecommended, Urgency: types.UrgencyLow},
	})
	assert.Equal(t, 3.0, got.EarnedPoints)
	assert.Equal(t, 4, got.TotalPossible)
	assert.Equal(t, 75.0, got.Score)
}

func TestScoreMediumNeedsConfirmationEarnsHalf(t *testing.T) {
	got := Score([]types.ActivityAssessment{
		{Status: types.StatusNeedsConfirmation, Urgency: types.UrgencyMedium},
	})
	assert.Equal(t, 1.0, got.EarnedPoints)
	assert.Equal(t, 2, got.TotalPossible)
	assert.Equal(t, 50.0, got.Score)
}

func TestScoreFourActivityScenario(t *testing.T) {
	// Completed/High, Recommended/Medium, NeedsConfirmation/Low,
	// Completed/Low: possible 3+2+1+1 = 7, earned 3+0+0.5+1 = 4.5.
	got := Score([]types.ActivityAssessment{
		{Status: types.StatusCompleted, Urgency: types.UrgencyHigh},
		{Status: types.StatusRecommended, Urgency: types.UrgencyMedium},
		{Status: types.StatusNeedsConfirmation, Urgency: types.UrgencyLow},
		{Status: types.StatusCompleted, Urgency: types.UrgencyLow},
	})
	assert.Equal(t, 4.5, got.EarnedPoints)
	assert.Equal(t, 7, got.TotalPossible)
	assert.InDelta(t, 64.3, got.Score, 0.05)
}

func TestScoreUnrecognizedUrgencyDefaultsToMedium(t *testing.T) {
	got := Score([]types.ActivityAssessment{
		{Status: types.StatusCompleted, Urgency: types.Urgency("Severe")},
		{Status: types.StatusCompleted}, // missing urgency
	})
	assert.Equal(t, 4.0, got.EarnedPoints)
	assert.Equal(t, 4, got.TotalPossible)
	assert.Equal(t, 100.0, got.Score)
}

func TestScoreUnrecognizedStatusEarnsNothing(t *testing.T) {
	got := Score([]types.ActivityAssessment{
		{Status: types.ActivityStatus("Done"), Urgency: types.UrgencyHigh},
	})
	assert.Equal(t, 0.0, got.EarnedPoints)
	assert.Equal(t, 3, got.TotalPossible)
	assert.Equal(t, 0.0, got.Score)
}

func TestScoreIdempotent(t *testing.T) {
	assessments := []types.ActivityAssessment{
		{Status: types.StatusCompleted, Urgency: types.UrgencyHigh},
		{Status: types.StatusNeedsConfirmation, Urgency: types.UrgencyLow},
		{Status: types.StatusRecommended, Urgency: types.UrgencyMedium},
	}

	first := Score(assessments)
	second := Score(assessments)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Score is not idempotent (-first +second):\n%s", diff)
	}
}

func TestSimulateForcesCompletionWithoutMutation(t *testing.T) {
	original := []types.ActivityAssessment{
		{ActivityID: "a", Status: types.StatusCompleted, Urgency: types.UrgencyHigh},
		{ActivityID: "b", Status: types.StatusRecommended, Urgency: types.UrgencyMedium},
	}

	before := Score(original)
	hypothetical, after := Simulate(original, "b")

	// The stored original is untouched.
	assert.Equal(t, types.StatusRecommended, original[1].Status)
	assert.Equal(t, before, Score(original))

	// The derived copy has the forced completion.
	assert.Equal(t, types.StatusCompleted, hypothetical[1].Status)
	assert.Equal(t, 100.0, after.Score)
	assert.Greater(t, after.Score, before.Score)
}

func TestSimulateUnknownIDIsNoop(t *testing.T) {
	original := []types.ActivityAssessment{
		{ActivityID: "a", Status: types.StatusRecommended, Urgency: types.UrgencyHigh},
	}
	hypothetical, after := Simulate(original, "does-not-exist")
	assert.Equal(t, Score(original), after)
	if diff := cmp.Diff(original, hypothetical); diff != "" {
		t.Fatalf("unexpected mutation (-original +hypothetical):\n%s", diff)
	}
}
