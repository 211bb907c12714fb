package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPizza Category = "Pizza"
	CategoryDrink Category = "Drink"
	CategorySide  Category = "Side"
)

var Categories = []Category{CategoryPizza, CategoryDrink, CategorySide}

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In Progress"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Table names, in insertion order.
const (
	TableStores          = "stores"
	TableIngredients     = "ingredients"
	TableMenuItems       = "menu_items"
	TableItemIngredients = "item_ingredients"
	TableCustomers       = "customers"
	TableOrders          = "orders"
	TableOrderItems      = "order_items"
)

// MaxPhoneLength is the width of every phone_number column.
const MaxPhoneLength = 20

type Store struct {
	ID          int64     `json:"store_id" db:"store_id"`
	Address     string    `json:"address" db:"address"`
	City        string    `json:"city" db:"city"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	OpenedAt    time.Time `json:"opened_at" db:"opened_at"`
}

type Ingredient struct {
	ID            int64           `json:"ingredient_id" db:"ingredient_id"`
	Name          string          `json:"name" db:"name"`
	StockQuantity decimal.Decimal `json:"stock_quantity" db:"stock_quantity"`
	Unit          string          `json:"unit" db:"unit"`
}

type MenuItem struct {
	ID       int64           `json:"item_id" db:"item_id"`
	Name     string          `json:"name" db:"name"`
	Category Category        `json:"category" db:"category"`
	Size     string          `json:"size" db:"size"`
	Price    decimal.Decimal `json:"price" db:"price"`
}

// PricedItem is a menu item id paired with the price it was created with.
// Order generation copies Price into every line item that references ID.
type PricedItem struct {
	ID    int64
	Price decimal.Decimal
}

type RecipeLink struct {
	ItemID           int64           `json:"item_id" db:"item_id"`
	IngredientID     int64           `json:"ingredient_id" db:"ingredient_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required" db:"quantity_required"`
}

type Customer struct {
	ID          int64     `json:"customer_id" db:"customer_id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Order struct {
	ID             int64           `json:"order_id" db:"order_id"`
	CustomerID     int64           `json:"customer_id" db:"customer_id"`
	StoreID        int64           `json:"store_id" db:"store_id"`
	OrderTimestamp time.Time       `json:"order_timestamp" db:"order_timestamp"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status         OrderStatus     `json:"status" db:"status"`
	Items          []OrderItem     `json:"items,omitempty" db:"-"`
}

type OrderItem struct {
	ID                 int64           `json:"order_item_id" db:"order_item_id"`
	OrderID            int64           `json:"order_id" db:"order_id"`
	ItemID             int64           `json:"item_id" db:"item_id"`
	Quantity           int             `json:"quantity" db:"quantity"`
	PriceAtTimeOfOrder decimal.Decimal `json:"price_at_time_of_order" db:"price_at_time_of_order"`
}

// LineTotal is the unit price snapshot multiplied by the quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTimeOfOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumLines returns the exact decimal sum of the line totals.
func SumLines(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
