// =============================================================================
// Travel Desk Sync - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks every row of the
// arrival sheet without touching the sheet or the calendar.
//
// COMMAND USAGE:
//   travel-desk validate
//
// EXIT STATUS:
//   0 when every row is valid, 1 when any row would be flagged.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/travel-desk/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the arrival sheet rows without writing anything",
	Long: `The validate command reads the arrival sheet and reports every row that
reconcile would flag, without flagging it and without contacting the
calendar.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		src, err := a.openSource(cmd.Context())
		if err != nil {
			return err
		}
		defer src.Close()

		records, err := src.Rows(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read rows: %w", err)
		}

		result := validation.NewValidator(a.location).ValidateAll(records)

		fmt.Printf("Rows read: %d\n", len(records))
		fmt.Printf("Valid:     %d\n", len(result.Valid))
		fmt.Printf("Invalid:   %d\n", len(result.Invalid))
		for _, rowErr := range result.Invalid {
			fmt.Printf("  %s\n", rowErr.Error())
		}

		if !result.IsValid() {
			return fmt.Errorf("%d invalid row(s)", len(result.Invalid))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
