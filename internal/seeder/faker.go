package seeder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rana718/rushmore/internal/types"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUniqueExhausted is returned when the fake-data source keeps producing
// values that were already handed out.
var ErrUniqueExhausted = errors.New("unique value source exhausted")

const maxUniqueAttempts = 1000

var (
	stapleIngredients = []string{
		"Mozzarella", "Cheddar", "Parmesan", "Tomato Sauce", "BBQ Sauce",
		"Pepperoni", "Ham", "Bacon", "Chicken", "Beef",
		"Onions", "Mushrooms", "Green Peppers", "Olives", "Pineapple",
		"Jalapeños", "Spinach", "Garlic", "Basil", "Oregano",
	}
	ingredientSuffixes = []string{"Topping", "Cheese", "Sauce", "Mix"}
	units              = []string{"kg", "g", "liters", "ml", "units"}

	pizzaQualifiers = []string{"Classic", "Special", "Deluxe"}
	sideQualifiers  = []string{"Fries", "Wedges", "Side"}

	orderStatuses = []any{
		types.StatusPending, types.StatusInProgress, types.StatusDelivered, types.StatusCancelled,
	}
	statusWeights = []float32{0.1, 0.2, 0.6, 0.1}
)

type menuProfile struct {
	sizes    []string
	minPrice float64
	maxPrice float64
}

var menuProfiles = map[types.Category]menuProfile{
	types.CategoryPizza: {sizes: []string{"Small", "Medium", "Large"}, minPrice: 7, maxPrice: 18},
	types.CategoryDrink: {sizes: []string{"330ml", "500ml", "1L"}, minPrice: 1.5, maxPrice: 4},
	types.CategorySide:  {sizes: []string{"Regular", "Large"}, minPrice: 3, maxPrice: 7},
}

// DataGenerator produces the chain's synthetic rows. All randomness of a run
// comes from its faker, so a fixed seed reproduces a run.
type DataGenerator struct {
	faker  *gofakeit.Faker
	title  cases.Caser
	now    func() time.Time
	emails *uniqueSet
	phones *uniqueSet
}

func NewDataGenerator(seed uint64) *DataGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &DataGenerator{
		faker:  gofakeit.New(seed),
		title:  cases.Title(language.English),
		now:    time.Now,
		emails: newUniqueSet(),
		phones: newUniqueSet(),
	}
}

// IntRange returns a uniform integer in [min, max].
func (g *DataGenerator) IntRange(min, max int) int {
	return g.faker.IntRange(min, max)
}

func (g *DataGenerator) Store() types.Store {
	now := g.now()
	return types.Store{
		Address:     g.faker.Street(),
		City:        g.faker.City(),
		PhoneNumber: NormalizePhone(g.faker.PhoneFormatted()),
		OpenedAt:    g.faker.DateRange(now.AddDate(-1, 0, 0), now),
	}
}

// IngredientName returns the i-th staple while the pool lasts and a
// procedural "Word Suffix" name after that.
func (g *DataGenerator) IngredientName(i int) string {
	if i < len(stapleIngredients) {
		return stapleIngredients[i]
	}
	return g.title.String(g.faker.Word()) + " " + g.faker.RandomString(ingredientSuffixes)
}

func (g *DataGenerator) Ingredient(i int) types.Ingredient {
	return types.Ingredient{
		Name:          g.IngredientName(i),
		StockQuantity: g.decimalRange(5, 200),
		Unit:          g.faker.RandomString(units),
	}
}

func (g *DataGenerator) MenuItem() types.MenuItem {
	category := types.Categories[g.faker.IntRange(0, len(types.Categories)-1)]
	profile := menuProfiles[category]
	word := g.title.String(g.faker.Word())

	var name string
	switch category {
	case types.CategoryPizza:
		name = fmt.Sprintf("%s %s Pizza", word, g.faker.RandomString(pizzaQualifiers))
	case types.CategoryDrink:
		name = word + " Drink"
	default:
		name = word + " " + g.faker.RandomString(sideQualifiers)
	}

	return types.MenuItem{
		Name:     name,
		Category: category,
		Size:     g.faker.RandomString(profile.sizes),
		Price:    g.decimalRange(profile.minPrice, profile.maxPrice),
	}
}

// RecipeQuantity is the amount of one ingredient a menu item consumes.
func (g *DataGenerator) RecipeQuantity() decimal.Decimal {
	return g.decimalRange(0.05, 0.5)
}

// Sample picks k distinct ids without replacement. k is capped at len(ids).
func (g *DataGenerator) Sample(ids []int64, k int) []int64 {
	if k > len(ids) {
		k = len(ids)
	}
	pool := append([]int64(nil), ids...)
	for i := 0; i < k; i++ {
		j := g.faker.IntRange(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// Customer returns a customer whose email and phone number have not been
// handed out by this generator before.
func (g *DataGenerator) Customer() (types.Customer, error) {
	parts := strings.Fields(g.faker.Name())
	first, last := "", ""
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}

	email, err := g.emails.next(g.faker.Email)
	if err != nil {
		return types.Customer{}, fmt.Errorf("email: %w", err)
	}
	phone, err := g.phones.next(func() string {
		return NormalizePhone(g.faker.PhoneFormatted())
	})
	if err != nil {
		return types.Customer{}, fmt.Errorf("phone number: %w", err)
	}

	now := g.now()
	return types.Customer{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: phone,
		CreatedAt:   g.faker.DateRange(now.AddDate(0, 0, -90), now),
	}, nil
}

// Order builds one order with 1-5 line items drawn with replacement from
// items. Each line freezes the item's captured price and the total is the
// exact sum of the lines.
func (g *DataGenerator) Order(customerIDs, storeIDs []int64, items []types.PricedItem) (types.Order, error) {
	status, err := g.faker.Weighted(orderStatuses, statusWeights)
	if err != nil {
		return types.Order{}, fmt.Errorf("order status: %w", err)
	}

	order := types.Order{
		CustomerID:     g.pick(customerIDs),
		StoreID:        g.pick(storeIDs),
		OrderTimestamp: g.orderTimestamp(),
		Status:         status.(types.OrderStatus),
	}

	lines := g.faker.IntRange(1, 5)
	order.Items = make([]types.OrderItem, 0, lines)
	for i := 0; i < lines; i++ {
		item := items[g.faker.IntRange(0, len(items)-1)]
		order.Items = append(order.Items, types.OrderItem{
			ItemID:             item.ID,
			Quantity:           g.faker.IntRange(1, 4),
			PriceAtTimeOfOrder: item.Price,
		})
	}
	order.TotalAmount = types.SumLines(order.Items)

	return order, nil
}

// orderTimestamp is uniform between January 1st of the current year and now.
func (g *DataGenerator) orderTimestamp() time.Time {
	now := g.now()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return g.faker.DateRange(start, now)
}

func (g *DataGenerator) pick(ids []int64) int64 {
	return ids[g.faker.IntRange(0, len(ids)-1)]
}

func (g *DataGenerator) decimalRange(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Float64Range(min, max)).Round(2)
}

// NormalizePhone strips spaces and cuts the number to the column width.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	if len(phone) > types.MaxPhoneLength {
		phone = phone[:types.MaxPhoneLength]
	}
	return phone
}

type uniqueSet struct {
	seen map[string]struct{}
}

func newUniqueSet() *uniqueSet {
	return &uniqueSet{seen: make(map[string]struct{})}
}

func (u *uniqueSet) next(gen func() string) (string, error) {
	for i := 0; i < maxUniqueAttempts; i++ {
		v := gen()
		if _, taken := u.seen[v]; taken {
			continue
		}
		u.seen[v] = struct{}{}
		return v, nil
	}
	return "", fmt.Errorf("%w after %d attempts", ErrUniqueExhausted, maxUniqueAttempts)
}
