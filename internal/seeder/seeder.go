package seeder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/rushmore/internal/database"
	"github.com/Rana718/rushmore/internal/store"
	"github.com/Rana718/rushmore/internal/types"
	"github.com/fatih/color"
)

type Seeder struct {
	db         *database.DB
	generator  *DataGenerator
	graph      *DependencyGraph
	seedConfig SeedConfig
	state      runState
	result     Result
}

func New(db *database.DB, generator *DataGenerator, seedConfig SeedConfig) (*Seeder, error) {
	graph, err := buildGraph()
	if err != nil {
		return nil, err
	}
	return &Seeder{
		db:         db,
		generator:  generator,
		graph:      graph,
		seedConfig: seedConfig,
	}, nil
}

// pipeline declares the stages in their natural order.
func pipeline() []*Stage {
	return []*Stage{
		{Name: "stores", Tables: []string{types.TableStores}, run: (*Seeder).seedStores},
		{Name: "ingredients", Tables: []string{types.TableIngredients}, run: (*Seeder).seedIngredients},
		{Name: "menu_items", Tables: []string{types.TableMenuItems}, run: (*Seeder).seedMenuItems},
		{
			Name:         "recipes",
			Tables:       []string{types.TableItemIngredients},
			Dependencies: []string{"ingredients", "menu_items"},
			run:          (*Seeder).seedRecipes,
		},
		{Name: "customers", Tables: []string{types.TableCustomers}, run: (*Seeder).seedCustomers},
		{
			Name:         "orders",
			Tables:       []string{types.TableOrders, types.TableOrderItems},
			Dependencies: []string{"stores", "menu_items", "customers"},
			run:          (*Seeder).seedOrders,
		},
	}
}

func buildGraph() (*DependencyGraph, error) {
	graph := NewDependencyGraph()
	for _, stage := range pipeline() {
		graph.AddStage(stage)
	}
	if _, err := graph.BuildOrder(); err != nil {
		return nil, fmt.Errorf("failed to build stage order: %w", err)
	}
	return graph, nil
}

// Tables lists the seeded tables in insertion order.
func Tables() ([]string, error) {
	graph, err := buildGraph()
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, name := range graph.GetOrder() {
		tables = append(tables, graph.Stage(name).Tables...)
	}
	return tables, nil
}

// Seed runs every stage in dependency order, each in its own transaction.
// The first failing stage aborts the run; stages committed before it stay.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	order := s.graph.GetOrder()
	color.Cyan("🌱 Starting database seeding...")
	color.Cyan("📋 Stage order: %s", strings.Join(order, " → "))
	fmt.Println()

	for _, name := range order {
		stage := s.graph.Stage(name)
		err := s.db.InTx(ctx, func(tx *sql.Tx) error {
			return stage.run(s, ctx, store.New(tx, s.db.Dialect))
		})
		if err != nil {
			color.Red("  ❌ %s failed, transaction rolled back", name)
			return &s.result, fmt.Errorf("seed %s: %w", name, err)
		}
	}

	color.Green("\n✅ Fake data generation complete.")
	return &s.result, nil
}

func (s *Seeder) seedStores(ctx context.Context, w Writer) error {
	color.Cyan("  📝 Seeding stores (%d records)...", s.seedConfig.Stores)
	ids, err := InsertStores(ctx, w, s.generator, s.seedConfig.Stores)
	if err != nil {
		return err
	}
	s.state.storeIDs = ids
	s.result.Stores = len(ids)
	color.Green("  ✅ Inserted %d stores", len(ids))
	return nil
}

func (s *Seeder) seedIngredients(ctx context.Context, w Writer) error {
	color.Cyan("  📝 Seeding ingredients (%d records)...", s.seedConfig.Ingredients)
	ids, skipped, err := InsertIngredients(ctx, w, s.generator, s.seedConfig.Ingredients)
	if err != nil {
		return err
	}
	s.state.ingredientIDs = ids
	s.result.Ingredients = len(ids)
	s.result.SkippedIngredients = skipped
	if skipped > 0 {
		color.Yellow("  ⚠️  Skipped %d ingredients with duplicate names", skipped)
	}
	color.Green("  ✅ Inserted %d ingredients", len(ids))
	return nil
}

func (s *Seeder) seedMenuItems(ctx context.Context, w Writer) error {
	color.Cyan("  📝 Seeding menu items (%d records)...", s.seedConfig.MenuItems)
	items, err := InsertMenuItems(ctx, w, s.generator, s.seedConfig.MenuItems)
	if err != nil {
		return err
	}
	s.state.items = items
	s.result.MenuItems = len(items)
	color.Green("  ✅ Inserted %d menu items", len(items))
	return nil
}

func (s *Seeder) seedRecipes(ctx context.Context, w Writer) error {
	color.Cyan("  📝 Linking %d menu items to %d ingredients...", len(s.state.items), len(s.state.ingredientIDs))
	linked, skipped, err := LinkRecipes(ctx, w, s.generator, s.state.items, s.state.ingredientIDs)
	if err != nil {
		return err
	}
	s.result.RecipeLinks = linked
	s.result.SkippedRecipeLinks = skipped
	color.Green("  ✅ Linked menu_items to ingredients via item_ingredients (%d links)", linked)
	return nil
}

func (s *Seeder) seedCustomers(ctx context.Context, w Writer) error {
	color.Cyan("  📝 Seeding customers (%d records)...", s.seedConfig.Customers)
	ids, err := InsertCustomers(ctx, w, s.generator, s.seedConfig.Customers)
	if err != nil {
		return err
	}
	s.state.customerIDs = ids
	s.result.Customers = len(ids)
	color.Green("  ✅ Inserted %d customers", len(ids))
	return nil
}

func (s *Seeder) seedOrders(ctx context.Context, w Writer) error {
	color.Cyan("  📝 Seeding orders (%d records)...", s.seedConfig.Orders)
	orders, lines, err := InsertOrders(ctx, w, s.generator,
		s.state.customerIDs, s.state.storeIDs, s.state.items, s.seedConfig.Orders)
	if err != nil {
		return err
	}
	s.result.Orders = orders
	s.result.OrderItems = lines
	color.Green("  ✅ Inserted %d orders and %d order_items", orders, lines)
	return nil
}
