// Package audit re-checks a seeded database against the data model's
// invariants: order totals, recipe fan-out, customer uniqueness and phone
// widths.
package audit

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/rushmore/internal/database"
	"github.com/Rana718/rushmore/internal/store"
	"github.com/Rana718/rushmore/internal/types"
	"github.com/shopspring/decimal"
)

const (
	CheckOrderTotals   = "order_totals"
	CheckOrderLines    = "order_lines"
	CheckRecipeLinks   = "recipe_links"
	CheckUniqueContact = "unique_contact"
	CheckPhoneLength   = "phone_length"
)

// Bounds of the generated data.
const (
	MinOrderLines  = 1
	MaxOrderLines  = 5
	MinRecipeLinks = 2
	MaxRecipeLinks = 6
)

var tables = []string{
	types.TableStores,
	types.TableIngredients,
	types.TableMenuItems,
	types.TableItemIngredients,
	types.TableCustomers,
	types.TableOrders,
	types.TableOrderItems,
}

type Violation struct {
	Check  string
	Detail string
}

type TableCount struct {
	Table string
	Rows  int64
}

type Report struct {
	Counts     []TableCount
	Violations []Violation
}

func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(check, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Check: check, Detail: fmt.Sprintf(format, args...)})
}

type auditor struct {
	q      store.Querier
	qb     squirrel.StatementBuilderType
	report *Report
}

// Run reads every seeded table through q and reports what violates the
// invariants. An error is returned only when the reads themselves fail.
func Run(ctx context.Context, q store.Querier, dialect database.Dialect) (*Report, error) {
	a := &auditor{q: q, qb: dialect.Builder(), report: &Report{}}

	s := store.New(q, dialect)
	for _, table := range tables {
		n, err := s.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		a.report.Counts = append(a.report.Counts, TableCount{Table: table, Rows: n})
	}

	checks := []func(context.Context) error{
		a.checkOrders,
		a.checkRecipes,
		a.checkCustomers,
		a.checkPhoneLengths,
	}
	for _, check := range checks {
		if err := check(ctx); err != nil {
			return nil, err
		}
	}
	return a.report, nil
}

func (a *auditor) checkOrders(ctx context.Context) error {
	sums := make(map[int64]decimal.Decimal)
	lineCounts := make(map[int64]int)

	err := a.each(ctx, a.qb.Select("order_id", "quantity", "price_at_time_of_order").From(types.TableOrderItems),
		func(scan func(dest ...any) error) error {
			var item types.OrderItem
			if err := scan(&item.OrderID, &item.Quantity, &item.PriceAtTimeOfOrder); err != nil {
				return err
			}
			sums[item.OrderID] = sums[item.OrderID].Add(item.LineTotal())
			lineCounts[item.OrderID]++
			return nil
		})
	if err != nil {
		return fmt.Errorf("read order items: %w", err)
	}

	err = a.each(ctx, a.qb.Select("order_id", "total_amount").From(types.TableOrders).OrderBy("order_id"),
		func(scan func(dest ...any) error) error {
			var id int64
			var total decimal.Decimal
			if err := scan(&id, &total); err != nil {
				return err
			}
			if sum := sums[id]; !sum.Equal(total) {
				a.report.add(CheckOrderTotals, "order %d: total %s, line items sum to %s", id, total.StringFixed(2), sum.StringFixed(2))
			}
			if n := lineCounts[id]; n < MinOrderLines || n > MaxOrderLines {
				a.report.add(CheckOrderLines, "order %d has %d line items", id, n)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("read orders: %w", err)
	}
	return nil
}

func (a *auditor) checkRecipes(ctx context.Context) error {
	type pair struct{ item, ingredient int64 }
	seen := make(map[pair]bool)
	links := make(map[int64]int)

	err := a.each(ctx, a.qb.Select("item_id", "ingredient_id").From(types.TableItemIngredients),
		func(scan func(dest ...any) error) error {
			var p pair
			if err := scan(&p.item, &p.ingredient); err != nil {
				return err
			}
			if seen[p] {
				a.report.add(CheckRecipeLinks, "menu item %d is linked to ingredient %d more than once", p.item, p.ingredient)
			}
			seen[p] = true
			links[p.item]++
			return nil
		})
	if err != nil {
		return fmt.Errorf("read recipe links: %w", err)
	}

	err = a.each(ctx, a.qb.Select("item_id").From(types.TableMenuItems).OrderBy("item_id"),
		func(scan func(dest ...any) error) error {
			var id int64
			if err := scan(&id); err != nil {
				return err
			}
			if n := links[id]; n < MinRecipeLinks || n > MaxRecipeLinks {
				a.report.add(CheckRecipeLinks, "menu item %d has %d ingredients", id, n)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("read menu items: %w", err)
	}
	return nil
}

func (a *auditor) checkCustomers(ctx context.Context) error {
	emails := make(map[string]int64)
	phones := make(map[string]int64)

	err := a.each(ctx, a.qb.Select("customer_id", "email", "phone_number").From(types.TableCustomers).OrderBy("customer_id"),
		func(scan func(dest ...any) error) error {
			var c types.Customer
			if err := scan(&c.ID, &c.Email, &c.PhoneNumber); err != nil {
				return err
			}
			if other, dup := emails[c.Email]; dup {
				a.report.add(CheckUniqueContact, "customers %d and %d share email %s", other, c.ID, c.Email)
			} else {
				emails[c.Email] = c.ID
			}
			if other, dup := phones[c.PhoneNumber]; dup {
				a.report.add(CheckUniqueContact, "customers %d and %d share phone %s", other, c.ID, c.PhoneNumber)
			} else {
				phones[c.PhoneNumber] = c.ID
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("read customers: %w", err)
	}
	return nil
}

func (a *auditor) checkPhoneLengths(ctx context.Context) error {
	sources := []struct{ table, pk string }{
		{types.TableStores, "store_id"},
		{types.TableCustomers, "customer_id"},
	}
	for _, src := range sources {
		err := a.each(ctx, a.qb.Select(src.pk, "phone_number").From(src.table),
			func(scan func(dest ...any) error) error {
				var id int64
				var phone string
				if err := scan(&id, &phone); err != nil {
					return err
				}
				if utf8.RuneCountInString(phone) > types.MaxPhoneLength {
					a.report.add(CheckPhoneLength, "%s %d: phone %q is longer than %d characters", src.table, id, phone, types.MaxPhoneLength)
				}
				return nil
			})
		if err != nil {
			return fmt.Errorf("read %s phones: %w", src.table, err)
		}
	}
	return nil
}

// each runs query and calls fn once per row.
func (a *auditor) each(ctx context.Context, query squirrel.SelectBuilder, fn func(scan func(dest ...any) error) error) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	rows, err := a.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return database.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows.Scan); err != nil {
			return err
		}
	}
	return rows.Err()
}
