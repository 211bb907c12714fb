package seeder

import (
	"context"

	"github.com/Rana718/rushmore/internal/types"
)

// SeedConfig holds the volume of every stage.
type SeedConfig struct {
	Stores      int
	Ingredients int
	MenuItems   int
	Customers   int
	Orders      int
}

// DefaultSeedConfig draws the randomized default volumes: 3-5 stores,
// 40-50 ingredients, 20-30 menu items, 1200 customers and 5000 orders.
func DefaultSeedConfig(gen *DataGenerator) SeedConfig {
	return SeedConfig{
		Stores:      gen.IntRange(3, 5),
		Ingredients: gen.IntRange(40, 50),
		MenuItems:   gen.IntRange(20, 30),
		Customers:   1200,
		Orders:      5000,
	}
}

// Result counts what a run actually wrote.
type Result struct {
	Stores             int
	Ingredients        int
	SkippedIngredients int
	MenuItems          int
	RecipeLinks        int
	SkippedRecipeLinks int
	Customers          int
	Orders             int
	OrderItems         int
}

// Writer is the set of inserts the stages need. *store.Store implements it.
type Writer interface {
	InsertStore(ctx context.Context, st types.Store) (int64, error)
	InsertIngredient(ctx context.Context, ing types.Ingredient) (int64, bool, error)
	InsertMenuItem(ctx context.Context, item types.MenuItem) (int64, error)
	InsertRecipeLink(ctx context.Context, link types.RecipeLink) (bool, error)
	InsertCustomer(ctx context.Context, c types.Customer) (int64, error)
	InsertOrder(ctx context.Context, o types.Order) (int64, error)
	InsertOrderItem(ctx context.Context, item types.OrderItem) (int64, error)
}

// Stage is one generation step. Its rows are committed in one transaction.
type Stage struct {
	Name         string
	Tables       []string
	Dependencies []string
	run          func(s *Seeder, ctx context.Context, w Writer) error
}

// runState carries the ids produced by earlier stages to later ones.
type runState struct {
	storeIDs      []int64
	ingredientIDs []int64
	items         []types.PricedItem
	customerIDs   []int64
}
