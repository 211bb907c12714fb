package cmd

import (
	"fmt"

	"github.com/Rana718/rushmore/internal/audit"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const maxListedViolations = 20

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check seeded data against its invariants",
	Long: `
Re-read the seeded tables and check that:

- every order total equals the sum of its line items
- every order has 1-5 line items
- every menu item has 2-6 distinct ingredients
- customer emails and phone numbers are unique
- store and customer phone numbers fit in 20 characters

Exits with a non-zero status when any check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB(db)

		color.Cyan("🔍 Verifying seeded data...")
		report, err := audit.Run(ctx, db, db.Dialect)
		if err != nil {
			return fmt.Errorf("failed to verify: %w", err)
		}

		for _, c := range report.Counts {
			fmt.Printf("  %-18s %d\n", c.Table, c.Rows)
		}
		fmt.Println()

		if report.OK() {
			color.Green("✅ All checks passed")
			return nil
		}

		for i, v := range report.Violations {
			if i == maxListedViolations {
				color.Yellow("  ... and %d more", len(report.Violations)-maxListedViolations)
				break
			}
			color.Red("  ❌ [%s] %s", v.Check, v.Detail)
		}
		return fmt.Errorf("%d invariant violations found", len(report.Violations))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
