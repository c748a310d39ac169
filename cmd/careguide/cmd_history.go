package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"careguide/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved health reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.Paths.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.ListReports(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No saved reports. Run 'careguide assess' first.")
			return nil
		}

		fmt.Printf("%-5s %-20s %-11s %-10s %s\n", "ID", "CREATED", "ACTIVITIES", "COMPLETED", "SCORE")
		for _, r := range records {
			fmt.Printf("%-5d %-20s %-11d %-10d %.1f\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.TotalActivities, r.CompletedCount, r.EngagementScore)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum reports to list (0 for all)")
}
