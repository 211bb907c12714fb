package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/rushmore/internal/config"
	"github.com/Rana718/rushmore/internal/database"
	"github.com/Rana718/rushmore/internal/seeder"
	"github.com/fatih/color"
)

func runSeed(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	generator := seeder.NewDataGenerator(cfg.Seed)
	s, err := seeder.New(db, generator, seeder.DefaultSeedConfig(generator))
	if err != nil {
		return err
	}

	result, err := s.Seed(ctx)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func connect(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.IsSQLite() {
		color.Cyan("🔌 Connected to %s", cfg.Database.Path)
	} else {
		color.Cyan("🔌 Connected to %s/%s (schema %s)", cfg.Database.Host, cfg.Database.Name, db.Schema)
	}
	return db, nil
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		color.Yellow("⚠️  Failed to close connection: %v", err)
		return
	}
	fmt.Println("Connection closed.")
}

func printResult(r *seeder.Result) {
	fmt.Println()
	color.Cyan("📊 Seed summary")
	fmt.Printf("  stores:            %d\n", r.Stores)
	fmt.Printf("  ingredients:       %d (%d skipped)\n", r.Ingredients, r.SkippedIngredients)
	fmt.Printf("  menu_items:        %d\n", r.MenuItems)
	fmt.Printf("  item_ingredients:  %d (%d skipped)\n", r.RecipeLinks, r.SkippedRecipeLinks)
	fmt.Printf("  customers:         %d\n", r.Customers)
	fmt.Printf("  orders:            %d\n", r.Orders)
	fmt.Printf("  order_items:       %d\n", r.OrderItems)
}
