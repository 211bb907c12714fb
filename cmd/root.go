package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "rushmore",
	Short: "Populate a pizza chain database with realistic fake data",
	Long: `
Rushmore fills an empty pizza chain database with synthetic data for
development and analytics testing:

- Stores, ingredients and menu items
- Recipes linking every menu item to 2-6 ingredients
- Customers with unique emails and phone numbers
- Orders with 1-5 line items whose totals match their lines exactly

Connection settings are read from the environment (or a .env file):
DB_PROVIDER, DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD, DB_SSLMODE,
DB_SCHEMA, DB_PATH and SEED.

Run 'rushmore migrate' once to create the tables and 'rushmore reset'
before seeding again.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetVersionTemplate(fmt.Sprintf("Rushmore CLI version %s\n", Version))
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	viper.AutomaticEnv()
}
