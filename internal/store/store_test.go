package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rana718/rushmore/internal/config"
	"github.com/Rana718/rushmore/internal/database"
	"github.com/Rana718/rushmore/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func openMemoryDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.Config{Database: config.Database{Provider: "sqlite", Path: ":memory:"}}
	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func newCustomer(email, phone string) types.Customer {
	return types.Customer{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       email,
		PhoneNumber: phone,
		CreatedAt:   time.Now(),
	}
}

func TestInsertIngredientSkipsExistingName(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	s := New(db, db.Dialect)

	ing := types.Ingredient{Name: "Mozzarella", StockQuantity: decimal.RequireFromString("12.50"), Unit: "kg"}

	id, inserted, err := s.InsertIngredient(ctx, ing)
	require.NoError(t, err)
	require.True(t, inserted)
	require.Positive(t, id)

	id, inserted, err = s.InsertIngredient(ctx, ing)
	require.NoError(t, err)
	require.False(t, inserted)
	require.Zero(t, id)

	n, err := s.Count(ctx, types.TableIngredients)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestInsertRecipeLinkSkipsExistingPair(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	s := New(db, db.Dialect)

	ingredientID, _, err := s.InsertIngredient(ctx, types.Ingredient{Name: "Basil", StockQuantity: decimal.NewFromInt(3), Unit: "g"})
	require.NoError(t, err)
	itemID, err := s.InsertMenuItem(ctx, types.MenuItem{
		Name:     "Basil Classic Pizza",
		Category: types.CategoryPizza,
		Size:     "Large",
		Price:    decimal.RequireFromString("14.99"),
	})
	require.NoError(t, err)

	link := types.RecipeLink{ItemID: itemID, IngredientID: ingredientID, QuantityRequired: decimal.RequireFromString("0.25")}

	inserted, err := s.InsertRecipeLink(ctx, link)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = s.InsertRecipeLink(ctx, link)
	require.NoError(t, err)
	require.False(t, inserted)

	n, err := s.Count(ctx, types.TableItemIngredients)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestInsertCustomerDuplicateIsConstraintError(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	s := New(db, db.Dialect)

	_, err := s.InsertCustomer(ctx, newCustomer("ada@example.com", "555-0100"))
	require.NoError(t, err)

	_, err = s.InsertCustomer(ctx, newCustomer("ada@example.com", "555-0101"))
	require.ErrorIs(t, err, database.ErrConstraint)
	require.True(t, database.IsUniqueViolation(err))
}

func TestInsertOrderWithItems(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	s := New(db, db.Dialect)

	storeID, err := s.InsertStore(ctx, types.Store{Address: "1 Main St", City: "Springfield", PhoneNumber: "555-0199", OpenedAt: time.Now()})
	require.NoError(t, err)
	customerID, err := s.InsertCustomer(ctx, newCustomer("bob@example.com", "555-0102"))
	require.NoError(t, err)
	itemID, err := s.InsertMenuItem(ctx, types.MenuItem{Name: "Cola Drink", Category: types.CategoryDrink, Size: "500ml", Price: decimal.RequireFromString("2.50")})
	require.NoError(t, err)

	lines := []types.OrderItem{
		{ItemID: itemID, Quantity: 3, PriceAtTimeOfOrder: decimal.RequireFromString("2.50")},
	}
	orderID, err := s.InsertOrder(ctx, types.Order{
		CustomerID:     customerID,
		StoreID:        storeID,
		OrderTimestamp: time.Now(),
		TotalAmount:    types.SumLines(lines),
		Status:         types.StatusDelivered,
	})
	require.NoError(t, err)

	for _, line := range lines {
		line.OrderID = orderID
		_, err := s.InsertOrderItem(ctx, line)
		require.NoError(t, err)
	}

	var total decimal.Decimal
	require.NoError(t, db.QueryRowContext(ctx, "SELECT total_amount FROM orders WHERE order_id = ?", orderID).Scan(&total))
	require.True(t, decimal.RequireFromString("7.50").Equal(total), "total %s", total)
}

func TestInsertOrderItemUnknownOrder(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	s := New(db, db.Dialect)

	_, err := s.InsertOrderItem(ctx, types.OrderItem{OrderID: 999, ItemID: 1, Quantity: 1, PriceAtTimeOfOrder: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, database.ErrConstraint)
	require.False(t, database.IsUniqueViolation(err))
}

func TestInsertStorePostgresReturning(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("INSERT INTO stores (address,city,phone_number,opened_at) VALUES ($1,$2,$3,$4) RETURNING store_id").
		WithArgs("1 Main St", "Springfield", "555-0199", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow(7))

	s := New(mockDB, database.Postgres)
	id, err := s.InsertStore(context.Background(), types.Store{
		Address:     "1 Main St",
		City:        "Springfield",
		PhoneNumber: "555-0199",
		OpenedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIngredientPostgresSkip(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT 1 FROM ingredients WHERE name = $1 LIMIT 1").
		WithArgs("Ham").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	s := New(mockDB, database.Postgres)
	_, inserted, err := s.InsertIngredient(context.Background(), types.Ingredient{Name: "Ham", StockQuantity: decimal.NewFromInt(1), Unit: "kg"})
	require.NoError(t, err)
	require.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMenuItemMySQLLastInsertID(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO menu_items (name,category,size,price) VALUES (?,?,?,?)")).
		WithArgs("Garlic Wedges", "Side", "Regular", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	s := New(mockDB, database.MySQL)
	id, err := s.InsertMenuItem(context.Background(), types.MenuItem{
		Name:     "Garlic Wedges",
		Category: types.CategorySide,
		Size:     "Regular",
		Price:    decimal.RequireFromString("4.20"),
	})
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT COUNT(*) FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5000))

	n, err := New(mockDB, database.Postgres).Count(context.Background(), types.TableOrders)
	require.NoError(t, err)
	require.EqualValues(t, 5000, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
