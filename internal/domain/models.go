package domain

import "time"

// Category is a closed set of menu categories. Display grouping and pricing
// behaviour are decoupled: the pricing engine only looks at PricingClass.
type Category string

const (
	CategoryAlcoholic Category = "alcoholic"
	CategorySoft      Category = "soft"
)

// PricingClass partitions menu items for the bundle-tier strategies.
type PricingClass string

const (
	ClassAlcoholic PricingClass = "alcoholic"
	ClassSoft      PricingClass = "soft"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAlcoholic, CategorySoft:
		return true
	}
	return false
}

// PricingClass maps a display category onto its pricing partition.
func (c Category) PricingClass() PricingClass {
	if c == CategorySoft {
		return ClassSoft
	}
	return ClassAlcoholic
}

type MenuItem struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Category  Category  `json:"category"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusInProgress OrderStatus = "in_progress"
	StatusReady      OrderStatus = "ready"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReady:
		return true
	}
	return false
}

// ValidTransition reports whether an order may move from one status to the
// other. The path is forward-only: new -> in_progress -> ready.
func ValidTransition(from, to OrderStatus) bool {
	switch from {
	case StatusNew:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusReady
	}
	return false
}

type Order struct {
	ID          int         `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID         int    `json:"id"`
	OrderID    int    `json:"order_id"`
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	// UnitPrice is the menu price snapshot at order time. Bundle-mode
	// configurations price the order as a whole, so the line total is not
	// simply UnitPrice*Quantity there.
	UnitPrice int64 `json:"unit_price"`
}

// OrderLine is a quantity request against a menu item, as submitted by the
// register before pricing.
type OrderLine struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// DailySummary aggregates a single day of order history.
type DailySummary struct {
	Date        string              `json:"date"`
	OrdersCount int                 `json:"orders_count"`
	Revenue     int64               `json:"revenue"`
	ByStatus    map[OrderStatus]int `json:"by_status"`
}
