package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Rana718/rushmore/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all seeded data",
	Long: `
Remove every row from the seven seeded tables and restart their identity
counters, so the database is back in the empty state a seed run expects.

⚠️  WARNING: This permanently deletes all data in those tables!

Use --force to skip the confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !askConfirmation(os.Stdin, "Are you sure you want to delete all seeded data?") {
			fmt.Println("Reset cancelled")
			return nil
		}

		tables, err := seeder.Tables()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB(db)

		color.Yellow("🗑️  Clearing %s...", strings.Join(tables, ", "))
		if err := db.Truncate(ctx, tables); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		color.Green("✅ All seeded tables are empty")
		return nil
	},
}

func askConfirmation(in io.Reader, message string) bool {
	fmt.Printf("🤔 %s (y/N): ", message)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
}
