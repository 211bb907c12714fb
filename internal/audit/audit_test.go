package audit

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rana718/rushmore/internal/config"
	"github.com/Rana718/rushmore/internal/database"
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

func exec(t *testing.T, db *database.DB, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
}

func checks(r *Report) map[string]int {
	out := make(map[string]int)
	for _, v := range r.Violations {
		out[v.Check]++
	}
	return out
}

func TestRunCleanData(t *testing.T) {
	db := openMemoryDB(t)
	exec(t, db,
		"INSERT INTO stores (address, city, phone_number, opened_at) VALUES ('1 Main St', 'Oslo', '555-0100', '2024-01-01')",
		"INSERT INTO ingredients (name, stock_quantity, unit) VALUES ('Ham', 10, 'kg'), ('Basil', 2.5, 'g')",
		"INSERT INTO menu_items (name, category, size, price) VALUES ('Ham Classic Pizza', 'Pizza', 'Large', 12.99)",
		"INSERT INTO item_ingredients (item_id, ingredient_id, quantity_required) VALUES (1, 1, 0.2), (1, 2, 0.05)",
		"INSERT INTO customers (first_name, last_name, email, phone_number, created_at) VALUES ('Ada', 'L', 'ada@example.com', '555-0101', '2024-01-01')",
		"INSERT INTO orders (customer_id, store_id, order_timestamp, total_amount, status) VALUES (1, 1, '2024-03-01', 38.97, 'Delivered')",
		"INSERT INTO order_items (order_id, item_id, quantity, price_at_time_of_order) VALUES (1, 1, 3, 12.99)",
	)

	report, err := Run(context.Background(), db, db.Dialect)
	require.NoError(t, err)
	require.True(t, report.OK(), "violations: %v", report.Violations)

	counts := make(map[string]int64)
	for _, c := range report.Counts {
		counts[c.Table] = c.Rows
	}
	require.Len(t, report.Counts, 7)
	require.EqualValues(t, 2, counts["ingredients"])
	require.EqualValues(t, 2, counts["item_ingredients"])
	require.EqualValues(t, 1, counts["order_items"])
}

func TestRunReportsOrderAndRecipeViolations(t *testing.T) {
	db := openMemoryDB(t)
	exec(t, db,
		"INSERT INTO stores (address, city, phone_number, opened_at) VALUES ('1 Main St', 'Oslo', '555-0100', '2024-01-01')",
		"INSERT INTO ingredients (name, stock_quantity, unit) VALUES ('Ham', 10, 'kg')",
		"INSERT INTO menu_items (name, category, size, price) VALUES ('Cola Drink', 'Drink', '500ml', 2.50)",
		"INSERT INTO item_ingredients (item_id, ingredient_id, quantity_required) VALUES (1, 1, 0.2)",
		"INSERT INTO customers (first_name, last_name, email, phone_number, created_at) VALUES ('Ada', 'L', 'ada@example.com', '555-0101', '2024-01-01')",
		// total off by one cent
		"INSERT INTO orders (customer_id, store_id, order_timestamp, total_amount, status) VALUES (1, 1, '2024-03-01', 5.01, 'Pending')",
		"INSERT INTO order_items (order_id, item_id, quantity, price_at_time_of_order) VALUES (1, 1, 2, 2.50)",
		// no line items at all
		"INSERT INTO orders (customer_id, store_id, order_timestamp, total_amount, status) VALUES (1, 1, '2024-03-02', 0.01, 'Cancelled')",
	)

	report, err := Run(context.Background(), db, db.Dialect)
	require.NoError(t, err)
	require.False(t, report.OK())

	got := checks(report)
	require.Equal(t, 2, got[CheckOrderTotals])
	require.Equal(t, 1, got[CheckOrderLines])
	require.Equal(t, 1, got[CheckRecipeLinks])
	require.Zero(t, got[CheckUniqueContact])
	require.Zero(t, got[CheckPhoneLength])
}

func TestRunReportsContactViolations(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	for _, table := range tables {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM " + table)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	}
	mock.ExpectQuery("FROM order_items").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "quantity", "price_at_time_of_order"}))
	mock.ExpectQuery("FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "total_amount"}))
	mock.ExpectQuery("FROM item_ingredients").
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "ingredient_id"}))
	mock.ExpectQuery("FROM menu_items").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}))
	mock.ExpectQuery("SELECT customer_id, email, phone_number FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "email", "phone_number"}).
			AddRow(1, "ada@example.com", "555-0101").
			AddRow(2, "ada@example.com", "555-0102").
			AddRow(3, "bob@example.com", "555-0101"))
	mock.ExpectQuery("SELECT store_id, phone_number FROM stores").
		WillReturnRows(sqlmock.NewRows([]string{"store_id", "phone_number"}).
			AddRow(1, "+1-555-0100-ext-12345"))
	mock.ExpectQuery("SELECT customer_id, phone_number FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "phone_number"}).
			AddRow(1, "555-0101"))

	report, err := Run(context.Background(), mockDB, database.Postgres)
	require.NoError(t, err)

	got := checks(report)
	require.Equal(t, 2, got[CheckUniqueContact])
	require.Equal(t, 1, got[CheckPhoneLength])
	require.NoError(t, mock.ExpectationsWereMet())
}
