package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"careguide/internal/redact"
)

var redactCmd = &cobra.Command{
	Use:   "redact [record-file]",
	Short: "De-identify a patient record and print the result",
	Long: `Applies the local de-identification pass to a record file and prints
the redacted text. Nothing is sent to the reasoning backend; this is the
exact text the pipeline would operate on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading record: %w", err)
		}
		fmt.Println(redact.Redact(string(record)))
		return nil
	},
}
