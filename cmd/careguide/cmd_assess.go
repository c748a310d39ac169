package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"careguide/internal/store"
	"careguide/internal/types"
)

var assessOutput string

var assessCmd = &cobra.Command{
	Use:   "assess [record-file...]",
	Short: "Run the full assessment pipeline on patient records",
	Long: `Reads one or more free-text patient record files, de-identifies them,
and runs the full pipeline: summarization, recommendation gathering,
consolidation, per-activity assessment, and scoring. Multiple files are
unified into one master record before assessment.

The report is saved to the history database and printed. With --output
it is also exported as a JSON file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&assessOutput, "output", "o", "", "export the report to a JSON file")
}

func runAssess(cmd *cobra.Command, args []string) error {
	sources := make([]string, 0, len(args))
	for _, path := range args {
		record, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading record: %w", err)
		}
		if strings.TrimSpace(string(record)) == "" {
			return fmt.Errorf("record file %s is empty", path)
		}
		sources = append(sources, string(record))
	}

	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}

	logger.Info("starting assessment", zap.Strings("records", args))
	start := time.Now()

	report, err := orch.RunFullAssessment(ctx, sources...)
	if err != nil {
		return err
	}
	logger.Info("assessment complete",
		zap.Int("activities", report.TotalActivities),
		zap.Float64("score", report.HealthEngagementScore),
		zap.Duration("elapsed", time.Since(start)))

	db, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveReport(ctx, report)
	if err != nil {
		return err
	}

	if assessOutput == "" {
		assessOutput = filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("report-%d.json", id))
	}
	if err := store.ExportJSON(report, assessOutput); err != nil {
		return err
	}

	printReport(report, id)
	fmt.Printf("\nReport saved as #%d and exported to %s\n", id, assessOutput)
	return nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	scoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	urgencyStyle = map[types.Urgency]lipgloss.Style{
		types.UrgencyHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		types.UrgencyMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		types.UrgencyLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

func printReport(report *types.HealthReport, id int64) {
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Health Report #%d", id)))
	fmt.Println()
	fmt.Printf("  %s\n\n", report.PatientSummary)
	fmt.Printf("  Engagement score: %s\n", scoreStyle.Render(fmt.Sprintf("%.1f / 100", report.HealthEngagementScore)))
	fmt.Printf("  Activities: %d total, %d completed, %d recommended, %d need confirmation\n\n",
		report.TotalActivities, report.CompletedCount, report.RecommendedCount, report.NeedsConfirmationCount)

	for _, a := range report.ActivityAssessments {
		style, ok := urgencyStyle[a.Urgency]
		if !ok {
			style = lipgloss.NewStyle()
		}
		fmt.Printf("  [%s] %s %s\n", a.Status, style.Render(fmt.Sprintf("(%s)", a.Urgency)), a.ShortDescription)
		if a.Frequency != "" {
			fmt.Printf("      Frequency: %s\n", a.Frequency)
		}
		if a.SupportingEvidence != "" {
			fmt.Printf("      Evidence: %s\n", a.SupportingEvidence)
		}
		for _, q := range a.UserInputQuestions {
			fmt.Printf("      ? %s\n", q)
		}
	}
}
