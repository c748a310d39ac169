// Package scoring computes the urgency-weighted health engagement
// score. It is a pure, total function over a list of assessments: no
// I/O, no hidden state, and never an error.
//
// An earlier revision of the system used an unweighted formula
// (completed fraction x 100 plus confirmation fraction x 50, capped at
// 100). The weighted formula below replaced it and is the only live
// code path.
package scoring

import (
	"careguide/internal/types"
)

// Point values per urgency level. An unrecognized or missing urgency
// deliberately falls back to the Medium weight.
const (
	PointsHigh   = 3
	PointsMedium = 2
	PointsLow    = 1
)

// Result is the outcome of scoring one assessment list.
type Result struct {
	Score         float64 `json:"score"`
	EarnedPoints  float64 `json:"earned_points"`
	TotalPossible int     `json:"total_possible"`
}

// PointsFor maps an urgency to its weight.
func PointsFor(u types.Urgency) int {
	switch u {
	case types.UrgencyHigh:
		return PointsHigh
	case types.UrgencyLow:
		return PointsLow
	default:
		return PointsMedium
	}
}

// Score computes the weighted engagement score. Completed assessments
// earn their full point value, assessments awaiting confirmation earn
// exactly half, and recommended (not yet done) assessments earn zero.
// Possible points are summed the same way regardless of status, so
// earned <= possible by construction and no capping is needed. An empty
// list yields the all-zero Result.
func Score(assessments []types.ActivityAssessment) Result {
	if len(assessments) == 0 {
		return Result{}
	}

	var earned float64
	var possible int
	for _, a := range assessments {
		points := PointsFor(a.Urgency)
		possible += points

		switch a.Status {
		case types.StatusCompleted:
			earned += float64(points)
		case types.StatusNeedsConfirmation:
			earned += float64(points) / 2
		}
	}

	if possible == 0 {
		return Result{}
	}
	return Result{
		Score:         earned / float64(possible) * 100,
		EarnedPoints:  earned,
		TotalPossible: possible,
	}
}

// Simulate derives a hypothetical assessment list in which the activity
// with the given identifier is forced to Completed, and rescores it.
// The input list is never mutated; callers keep the stored original.
func Simulate(assessments []types.ActivityAssessment, activityID string) ([]types.ActivityAssessment, Result) {
	hypothetical := make([]types.ActivityAssessment, len(assessments))
	for i, a := range assessments {
		if a.ActivityID == activityID {
			a.Status = types.StatusCompleted
		}
		hypothetical[i] = a
	}
	return hypothetical, Score(hypothetical)
}
