package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"careguide/internal/scoring"
	"careguide/internal/store"
	"careguide/internal/types"
)

var scoreFile string

var scoreCmd = &cobra.Command{
	Use:   "score [report-id]",
	Short: "Recompute the engagement score for a saved or exported report",
	Long: `Recomputes the engagement score deterministically from a report's
assessments and prints the point breakdown. Reads from the history
database by id, or from an exported JSON file with --file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "score an exported report JSON file")
}

func runScore(cmd *cobra.Command, args []string) error {
	report, err := loadReportArg(cmd, args)
	if err != nil {
		return err
	}

	result := scoring.Score(report.ActivityAssessments)
	fmt.Printf("Engagement score: %.1f / 100 (%.1f of %d points)\n\n",
		result.Score, result.EarnedPoints, result.TotalPossible)

	for _, a := range report.ActivityAssessments {
		points := scoring.PointsFor(a.Urgency)
		earned := 0.0
		switch a.Status {
		case types.StatusCompleted:
			earned = float64(points)
		case types.StatusNeedsConfirmation:
			earned = float64(points) / 2
		}
		fmt.Printf("  %.1f/%d  [%s] %s\n", earned, points, a.Status, a.ShortDescription)
	}
	return nil
}

// loadReportArg resolves the report named by --file or a positional
// history id.
func loadReportArg(cmd *cobra.Command, args []string) (*types.HealthReport, error) {
	if scoreFile != "" {
		data, err := os.ReadFile(scoreFile)
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}
		var report types.HealthReport
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("parsing report: %w", err)
		}
		return &report, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a report id or --file")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid report id %q", args[0])
	}

	db, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.GetReport(cmd.Context(), id)
}
