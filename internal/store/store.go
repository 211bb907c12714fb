package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/rushmore/internal/database"
	"github.com/Rana718/rushmore/internal/types"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store writes the chain's rows through a single Querier, normally the
// transaction of the stage being run.
type Store struct {
	q       Querier
	dialect database.Dialect
	qb      squirrel.StatementBuilderType
}

func New(q Querier, dialect database.Dialect) *Store {
	return &Store{
		q:       q,
		dialect: dialect,
		qb:      dialect.Builder(),
	}
}

func (s *Store) InsertStore(ctx context.Context, st types.Store) (int64, error) {
	query := s.qb.Insert(types.TableStores).
		Columns("address", "city", "phone_number", "opened_at").
		Values(st.Address, st.City, st.PhoneNumber, st.OpenedAt)

	id, err := s.insertReturningID(ctx, query, "store_id")
	if err != nil {
		return 0, fmt.Errorf("insert store: %w", err)
	}
	return id, nil
}

// InsertIngredient inserts ing unless an ingredient with the same name
// exists. inserted is false when the row was skipped.
func (s *Store) InsertIngredient(ctx context.Context, ing types.Ingredient) (id int64, inserted bool, err error) {
	exists, err := s.exists(ctx, s.qb.Select("1").From(types.TableIngredients).
		Where(squirrel.Eq{"name": ing.Name}))
	if err != nil {
		return 0, false, fmt.Errorf("lookup ingredient %q: %w", ing.Name, err)
	}
	if exists {
		return 0, false, nil
	}

	query := s.qb.Insert(types.TableIngredients).
		Columns("name", "stock_quantity", "unit").
		Values(ing.Name, ing.StockQuantity, ing.Unit)

	id, err = s.insertReturningID(ctx, query, "ingredient_id")
	if err != nil {
		return 0, false, fmt.Errorf("insert ingredient %q: %w", ing.Name, err)
	}
	return id, true, nil
}

func (s *Store) InsertMenuItem(ctx context.Context, item types.MenuItem) (int64, error) {
	query := s.qb.Insert(types.TableMenuItems).
		Columns("name", "category", "size", "price").
		Values(item.Name, string(item.Category), item.Size, item.Price)

	id, err := s.insertReturningID(ctx, query, "item_id")
	if err != nil {
		return 0, fmt.Errorf("insert menu item %q: %w", item.Name, err)
	}
	return id, nil
}

// InsertRecipeLink inserts link unless the (item, ingredient) pair is
// already linked. It reports whether a row was written.
func (s *Store) InsertRecipeLink(ctx context.Context, link types.RecipeLink) (bool, error) {
	exists, err := s.exists(ctx, s.qb.Select("1").From(types.TableItemIngredients).
		Where(squirrel.Eq{"item_id": link.ItemID, "ingredient_id": link.IngredientID}))
	if err != nil {
		return false, fmt.Errorf("lookup recipe link %d/%d: %w", link.ItemID, link.IngredientID, err)
	}
	if exists {
		return false, nil
	}

	query, args, err := s.qb.Insert(types.TableItemIngredients).
		Columns("item_id", "ingredient_id", "quantity_required").
		Values(link.ItemID, link.IngredientID, link.QuantityRequired).
		ToSql()
	if err != nil {
		return false, err
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("insert recipe link %d/%d: %w", link.ItemID, link.IngredientID, database.Classify(err))
	}
	return true, nil
}

func (s *Store) InsertCustomer(ctx context.Context, c types.Customer) (int64, error) {
	query := s.qb.Insert(types.TableCustomers).
		Columns("first_name", "last_name", "email", "phone_number", "created_at").
		Values(c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.CreatedAt)

	id, err := s.insertReturningID(ctx, query, "customer_id")
	if err != nil {
		return 0, fmt.Errorf("insert customer %s: %w", c.Email, err)
	}
	return id, nil
}

// InsertOrder writes the order row with its final total. Line items are
// written separately with InsertOrderItem.
func (s *Store) InsertOrder(ctx context.Context, o types.Order) (int64, error) {
	query := s.qb.Insert(types.TableOrders).
		Columns("customer_id", "store_id", "order_timestamp", "total_amount", "status").
		Values(o.CustomerID, o.StoreID, o.OrderTimestamp, o.TotalAmount, string(o.Status))

	id, err := s.insertReturningID(ctx, query, "order_id")
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

func (s *Store) InsertOrderItem(ctx context.Context, item types.OrderItem) (int64, error) {
	query := s.qb.Insert(types.TableOrderItems).
		Columns("order_id", "item_id", "quantity", "price_at_time_of_order").
		Values(item.OrderID, item.ItemID, item.Quantity, item.PriceAtTimeOfOrder)

	id, err := s.insertReturningID(ctx, query, "order_item_id")
	if err != nil {
		return 0, fmt.Errorf("insert order item for order %d: %w", item.OrderID, err)
	}
	return id, nil
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	query, args, err := s.qb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, database.Classify(err))
	}
	return n, nil
}

func (s *Store) exists(ctx context.Context, query squirrel.SelectBuilder) (bool, error) {
	sqlStr, args, err := query.Limit(1).ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = s.q.QueryRowContext(ctx, sqlStr, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, database.Classify(err)
	}
	return true, nil
}

// insertReturningID runs query and returns the generated primary key, using
// RETURNING where the dialect has it and LastInsertId otherwise.
func (s *Store) insertReturningID(ctx context.Context, query squirrel.InsertBuilder, pkColumn string) (int64, error) {
	if s.dialect.SupportsReturning() {
		sqlStr, args, err := query.Suffix("RETURNING " + pkColumn).ToSql()
		if err != nil {
			return 0, err
		}

		var id int64
		if err := s.q.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
			return 0, database.Classify(err)
		}
		return id, nil
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	result, err := s.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, database.Classify(err)
	}
	return result.LastInsertId()
}
