package cart

import (
	"github.com/yoshii-hideaki/mikan-order/internal/domain"
	"github.com/yoshii-hideaki/mikan-order/internal/pricing"
)

// Item is a menu item with the quantity currently on the register.
type Item struct {
	MenuItem domain.MenuItem `json:"menu_item"`
	Quantity int             `json:"quantity"`
}

// Cart is the register-side selection being built before checkout. It has a
// single logical owner and is not safe for concurrent use. At most one entry
// exists per menu item id; a quantity that drops to zero removes the entry.
type Cart struct {
	strategy pricing.Strategy
	items    []Item
}

func New(strategy pricing.Strategy) *Cart {
	return &Cart{strategy: strategy}
}

// Add puts one unit of the item in the cart, incrementing the quantity when
// the item is already present.
func (c *Cart) Add(item domain.MenuItem) {
	for i := range c.items {
		if c.items[i].MenuItem.ID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{MenuItem: item, Quantity: 1})
}

// Remove drops the entry entirely. Removing an absent id is a no-op.
func (c *Cart) Remove(menuItemID int) {
	for i := range c.items {
		if c.items[i].MenuItem.ID == menuItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the entry's quantity; anything at or below zero removes
// the entry.
func (c *Cart) SetQuantity(menuItemID, quantity int) {
	if quantity <= 0 {
		c.Remove(menuItemID)
		return
	}
	for i := range c.items {
		if c.items[i].MenuItem.ID == menuItemID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns the entries in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Lines converts the cart into the order lines submitted at checkout.
func (c *Cart) Lines() []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, domain.OrderLine{MenuItemID: it.MenuItem.ID, Quantity: it.Quantity})
	}
	return lines
}

// Receipt prices the current contents under the active strategy.
func (c *Cart) Receipt() pricing.Receipt {
	lines := make([]pricing.Line, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, pricing.Line{
			Quantity:  it.Quantity,
			UnitPrice: it.MenuItem.Price,
			Class:     it.MenuItem.Category.PricingClass(),
		})
	}
	return c.strategy.Price(lines)
}

func (c *Cart) Subtotal() int64 { return c.Receipt().Subtotal }
func (c *Cart) Tax() int64      { return c.Receipt().Tax }
func (c *Cart) Total() int64    { return c.Receipt().Total }
