package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"careguide/internal/intake"
	"careguide/internal/store"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and assess record files as they arrive",
	Long: `Watches a drop directory for .txt and .md record files. Each file that
settles is run through the full pipeline, saved to history, and exported
next to the other reports. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "directory to watch (default: <data-dir>/inbox)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir := watchDir
	if dir == "" {
		dir = filepath.Join(cfg.Paths.DataDir, "inbox")
	}

	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	db, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	handler := func(ctx context.Context, path, record string) {
		logger.Info("assessing incoming record", zap.String("file", path))

		report, err := orch.Run(ctx, record)
		if err != nil {
			logger.Error("assessment failed", zap.String("file", path), zap.Error(err))
			return
		}

		id, err := db.SaveReport(ctx, report)
		if err != nil {
			logger.Error("saving report failed", zap.String("file", path), zap.Error(err))
			return
		}

		out := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("report-%d.json", id))
		if err := store.ExportJSON(report, out); err != nil {
			logger.Error("exporting report failed", zap.Int64("id", id), zap.Error(err))
			return
		}
		logger.Info("report ready",
			zap.Int64("id", id),
			zap.Float64("score", report.HealthEngagementScore),
			zap.String("output", out))
	}

	watcher, err := intake.NewRecordWatcher(dir, handler)
	if err != nil {
		return err
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	fmt.Printf("Watching %s for record files. Press Ctrl+C to stop.\n", dir)
	<-ctx.Done()
	return nil
}
