// Package pipeline orchestrates one end-to-end assessment run: redact,
// summarize, gather recommendations from three sources, consolidate,
// assess each activity, and score the result into a HealthReport.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"careguide/internal/agents"
	"careguide/internal/guidelines"
	"careguide/internal/logging"
	"careguide/internal/reasoning"
	"careguide/internal/redact"
	"careguide/internal/scoring"
	"careguide/internal/types"
)

// Fatal stage errors. Every other stage degrades; these two abort the
// run because nothing downstream can produce a meaningful report
// without them.
var (
	ErrSummarization = errors.New("summarization stage failed")
	ErrConsolidation = errors.New("consolidation stage failed")
)

// DefaultAssessmentInterval spaces out per-activity assessment rounds.
const DefaultAssessmentInterval = 6 * time.Second

// Options configures an Orchestrator. Zero values select defaults.
type Options struct {
	SummaryInputLimit    int
	GuidelinePromptLimit int
	AssessmentInterval   time.Duration
	Guidelines           []guidelines.Guideline
}

// Orchestrator wires the agents together and runs the pipeline
// stages in order. One Orchestrator may serve many runs.
type Orchestrator struct {
	summarizer   *agents.Summarizer
	recommender  *agents.Recommender
	consolidator *agents.Consolidator
	assessor     *agents.Assessor
	guidelines   []guidelines.Guideline
	limiter      *rate.Limiter
}

// New constructs an Orchestrator on top of the given reasoning client.
func New(llm reasoning.LLMClient, opts Options) *Orchestrator {
	interval := opts.AssessmentInterval
	if interval <= 0 {
		interval = DefaultAssessmentInterval
	}
	return &Orchestrator{
		summarizer:   agents.NewSummarizer(llm, opts.SummaryInputLimit),
		recommender:  agents.NewRecommender(llm, opts.GuidelinePromptLimit),
		consolidator: agents.NewConsolidator(llm),
		assessor:     agents.NewAssessor(llm),
		guidelines:   opts.Guidelines,
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
	}
}

// RunFullAssessment unifies one or more raw record fragments into a
// single master record and runs it through the pipeline. Fragments are
// joined with source separators so the summarizer can tell documents
// apart.
func (o *Orchestrator) RunFullAssessment(ctx context.Context, sources ...string) (*types.HealthReport, error) {
	var b strings.Builder
	for i, source := range sources {
		if strings.TrimSpace(source) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Record %d ---\n", i+1)
		b.WriteString(source)
	}
	return o.Run(ctx, b.String())
}

// Run executes one full assessment of a raw patient record.
//
// Summarization and consolidation failures abort the run, wrapped in
// ErrSummarization and ErrConsolidation. A failed recommendation source
// contributes an empty list. Per-activity assessment never fails; each
// activity degrades independently inside the assessor.
func (o *Orchestrator) Run(ctx context.Context, record string) (*types.HealthReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	redacted := redact.Redact(record)
	logging.Redaction("record redacted: %d chars in, %d chars out", len(record), len(redacted))

	summary, err := o.summarizer.Summarize(ctx, redacted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummarization, err)
	}

	general := o.gather(ctx, "general", func() ([]types.ActivityCandidate, error) {
		return o.recommender.RecommendGeneral(ctx, summary)
	})
	condition := o.gather(ctx, "condition-specific", func() ([]types.ActivityCandidate, error) {
		return o.recommender.RecommendConditionSpecific(ctx, summary)
	})

	age := 0
	if summary.Age != nil {
		age = *summary.Age
	}
	applicable := guidelines.FilterByDemographics(o.guidelines, age, summary.Sex)
	guideline := o.gather(ctx, "guideline", func() ([]types.ActivityCandidate, error) {
		return o.recommender.RecommendFromGuidelines(ctx, summary, applicable)
	})

	// A cancelled context looks like three failed sources; distinguish
	// it from degradation and abort instead of reporting on nothing.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommendation gathering interrupted: %w", err)
	}

	activities, err := o.consolidator.Consolidate(ctx, general, condition, guideline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConsolidation, err)
	}
	logging.Pipeline("assessing %d consolidated activities", len(activities))

	assessments := make([]types.ActivityAssessment, 0, len(activities))
	for _, activity := range activities {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("assessment loop interrupted: %w", err)
		}
		assessments = append(assessments, o.assessor.Assess(ctx, activity, redacted))
	}

	completed, recommended, needsConfirmation := types.StatusCounts(assessments)
	result := scoring.Score(assessments)

	report := &types.HealthReport{
		PatientSummary:         summary.BasicSummary,
		TotalActivities:        len(assessments),
		CompletedCount:         completed,
		RecommendedCount:       recommended,
		NeedsConfirmationCount: needsConfirmation,
		HealthEngagementScore:  result.Score,
		ActivityAssessments:    assessments,
	}

	logging.Pipeline("run complete in %s: %d activities, score %.1f",
		time.Since(start).Round(time.Millisecond), report.TotalActivities, report.HealthEngagementScore)
	return report, nil
}

// gather runs one recommendation source, absorbing its failure into an
// empty contribution.
func (o *Orchestrator) gather(ctx context.Context, source string, fn func() ([]types.ActivityCandidate, error)) []types.ActivityCandidate {
	if err := ctx.Err(); err != nil {
		return nil
	}
	candidates, err := fn()
	if err != nil {
		logging.PipelineError("%s recommendation source failed, continuing without it: %v", source, err)
		return nil
	}
	return candidates
}
