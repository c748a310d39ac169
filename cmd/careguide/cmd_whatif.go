package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"careguide/internal/agents"
	"careguide/internal/scoring"
	"careguide/internal/store"
	"careguide/internal/types"
)

var whatIfCmd = &cobra.Command{
	Use:   "whatif [report-id] [activity]",
	Short: "Show the score impact of completing one activity",
	Long: `Simulates marking one activity completed, recomputes the engagement
score, and explains the impact in plain language. The activity may be
given by its id or by a fragment of its description.

The simulation never modifies the saved report.`,
	Args: cobra.ExactArgs(2),
	RunE: runWhatIf,
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid report id %q", args[0])
	}

	ctx := cmd.Context()
	db, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := db.GetReport(ctx, id)
	if err != nil {
		return err
	}

	activity, err := findActivity(report.ActivityAssessments, args[1])
	if err != nil {
		return err
	}
	if activity.Status == types.StatusCompleted {
		fmt.Printf("%q is already completed; the score would not change.\n", activity.ShortDescription)
		return nil
	}

	current := scoring.Score(report.ActivityAssessments)
	_, simulated := scoring.Simulate(report.ActivityAssessments, activity.ActivityID)

	llm, err := newReasoningClient(ctx)
	if err != nil {
		return err
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}

	explanation := agents.NewWhatIfAnalyst(llm).Explain(ctx, string(reportJSON),
		activity.ShortDescription, current.Score, simulated.Score)

	fmt.Printf("Completing %q: %.1f -> %.1f\n\n%s\n",
		activity.ShortDescription, current.Score, simulated.Score, explanation)
	return nil
}

// findActivity matches by exact id first, then by case-insensitive
// description fragment.
func findActivity(assessments []types.ActivityAssessment, key string) (types.ActivityAssessment, error) {
	for _, a := range assessments {
		if a.ActivityID == key {
			return a, nil
		}
	}

	keyLower := strings.ToLower(key)
	var matches []types.ActivityAssessment
	for _, a := range assessments {
		if strings.Contains(strings.ToLower(a.ShortDescription), keyLower) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return types.ActivityAssessment{}, fmt.Errorf("no activity matches %q", key)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.ShortDescription
		}
		return types.ActivityAssessment{}, fmt.Errorf("%q is ambiguous: %s", key, strings.Join(names, "; "))
	}
}
