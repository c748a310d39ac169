package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"careguide/internal/config"
	"careguide/internal/guidelines"
	"careguide/internal/logging"
	"careguide/internal/pipeline"
	"careguide/internal/reasoning"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiKey     string
	model      string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "careguide",
	Short: "CareGuide - preventive care checklist from a patient health record",
	Long: `CareGuide turns a free-text patient health record into a prioritized
preventive care checklist with an engagement score.

The record is de-identified locally before any text leaves the machine.
The pipeline then summarizes the record, gathers recommendations from
general practice, condition-specific reasoning, and published screening
guidelines, merges them, assesses each activity against the record, and
scores the result.

Run 'careguide assess <record-file>' to produce a report, then
'careguide chat' to discuss it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		if model != "" {
			cfg.LLM.Model = model
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		debug := cfg.Logging.DebugMode || verbose
		if err := logging.Initialize(".", debug, cfg.Logging.Level); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Shutdown()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "careguide.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "reasoning API key (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "reasoning model (overrides config and env)")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(redactCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(whatIfCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(chatCmd)
}

// newReasoningClient builds the configured backend adapter.
func newReasoningClient(ctx context.Context) (reasoning.LLMClient, error) {
	return reasoning.NewClient(ctx, reasoning.Config{
		Provider:        reasoning.Provider(cfg.LLM.Provider),
		APIKey:          cfg.LLM.APIKey,
		Model:           cfg.LLM.Model,
		BaseURL:         cfg.LLM.BaseURL,
		Timeout:         cfg.LLMTimeout(),
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	})
}

// newOrchestrator builds a pipeline orchestrator with the configured
// guideline set.
func newOrchestrator(ctx context.Context) (*pipeline.Orchestrator, error) {
	llm, err := newReasoningClient(ctx)
	if err != nil {
		return nil, err
	}

	gs, err := guidelines.LoadFile(cfg.Paths.GuidelinesFile)
	if err != nil {
		return nil, fmt.Errorf("loading guidelines: %w", err)
	}
	if len(gs) == 0 {
		logger.Warn("no guidelines loaded, guideline recommendations will be skipped",
			zap.String("path", cfg.Paths.GuidelinesFile))
	}

	return pipeline.New(llm, pipeline.Options{
		SummaryInputLimit:    cfg.Pipeline.SummaryInputLimit,
		GuidelinePromptLimit: cfg.Pipeline.GuidelinePromptLimit,
		AssessmentInterval:   cfg.AssessmentInterval(),
		Guidelines:           gs,
	}), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
