package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the pizza chain tables",
	Long: `
Create the schema namespace (PostgreSQL) and the seven tables the seeder
writes to. Tables that already exist are left untouched.`,
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

		color.Cyan("🔄 Creating tables...")
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		color.Green("✅ Schema is ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
