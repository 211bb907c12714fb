package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/rushmore/internal/types"
)

const (
	MinRecipeLinks = 2
	MaxRecipeLinks = 6
)

var (
	// ErrInsufficientIngredients means too few ingredients survived name
	// collisions to give every menu item its minimum recipe.
	ErrInsufficientIngredients = errors.New("not enough ingredients to build recipes")
	// ErrMissingDependency means a stage was run without the rows it
	// references.
	ErrMissingDependency = errors.New("missing rows from a previous stage")
)

// InsertStores writes n stores and returns their ids in insertion order.
func InsertStores(ctx context.Context, w Writer, gen *DataGenerator, n int) ([]int64, error) {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := w.InsertStore(ctx, gen.Store())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// InsertIngredients attempts n ingredients. Names that already exist are
// skipped; only the ids actually created are returned.
func InsertIngredients(ctx context.Context, w Writer, gen *DataGenerator, n int) (ids []int64, skipped int, err error) {
	ids = make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, inserted, err := w.InsertIngredient(ctx, gen.Ingredient(i))
		if err != nil {
			return nil, 0, err
		}
		if !inserted {
			skipped++
			continue
		}
		ids = append(ids, id)
	}
	return ids, skipped, nil
}

// InsertMenuItems writes n menu items and returns each id with the price it
// was created at.
func InsertMenuItems(ctx context.Context, w Writer, gen *DataGenerator, n int) ([]types.PricedItem, error) {
	items := make([]types.PricedItem, 0, n)
	for i := 0; i < n; i++ {
		item := gen.MenuItem()
		id, err := w.InsertMenuItem(ctx, item)
		if err != nil {
			return nil, err
		}
		items = append(items, types.PricedItem{ID: id, Price: item.Price})
	}
	return items, nil
}

// LinkRecipes gives every menu item 2-6 distinct ingredients.
func LinkRecipes(ctx context.Context, w Writer, gen *DataGenerator, items []types.PricedItem, ingredientIDs []int64) (linked, skipped int, err error) {
	if len(items) > 0 && len(ingredientIDs) < MinRecipeLinks {
		return 0, 0, fmt.Errorf("%w: have %d, need at least %d",
			ErrInsufficientIngredients, len(ingredientIDs), MinRecipeLinks)
	}

	for _, item := range items {
		k := gen.IntRange(MinRecipeLinks, MaxRecipeLinks)
		for _, ingredientID := range gen.Sample(ingredientIDs, k) {
			inserted, err := w.InsertRecipeLink(ctx, types.RecipeLink{
				ItemID:           item.ID,
				IngredientID:     ingredientID,
				QuantityRequired: gen.RecipeQuantity(),
			})
			if err != nil {
				return 0, 0, err
			}
			if inserted {
				linked++
			} else {
				skipped++
			}
		}
	}
	return linked, skipped, nil
}

// InsertCustomers writes n customers with unique emails and phone numbers.
func InsertCustomers(ctx context.Context, w Writer, gen *DataGenerator, n int) ([]int64, error) {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		customer, err := gen.Customer()
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", i+1, err)
		}
		id, err := w.InsertCustomer(ctx, customer)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// InsertOrders writes n orders. Each order row carries its final total and
// is followed by its line items.
func InsertOrders(ctx context.Context, w Writer, gen *DataGenerator, customerIDs, storeIDs []int64, items []types.PricedItem, n int) (orders, lines int, err error) {
	switch {
	case n == 0:
		return 0, 0, nil
	case len(customerIDs) == 0:
		return 0, 0, fmt.Errorf("%w: no customers", ErrMissingDependency)
	case len(storeIDs) == 0:
		return 0, 0, fmt.Errorf("%w: no stores", ErrMissingDependency)
	case len(items) == 0:
		return 0, 0, fmt.Errorf("%w: no menu items", ErrMissingDependency)
	}

	for i := 0; i < n; i++ {
		order, err := gen.Order(customerIDs, storeIDs, items)
		if err != nil {
			return 0, 0, err
		}

		orderID, err := w.InsertOrder(ctx, order)
		if err != nil {
			return 0, 0, err
		}
		for _, line := range order.Items {
			line.OrderID = orderID
			if _, err := w.InsertOrderItem(ctx, line); err != nil {
				return 0, 0, err
			}
			lines++
		}
		orders++
	}
	return orders, lines, nil
}
