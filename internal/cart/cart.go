package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/techhaven/storefront/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not in cart")
)

// Item is a product snapshot plus the quantity selected.
type Item struct {
	Product  models.Product
	Quantity int
}

// Cart aggregates items for a single browsing session. It lives for the
// duration of one session or request and is not safe for concurrent use.
type Cart struct {
	items map[string]*Item
	ids   []string // insertion order
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{
		items: make(map[string]*Item),
	}
}

// AddItem puts a product into the cart. If the product is already present its
// quantity is incremented by one instead of creating a second entry.
func (c *Cart) AddItem(p models.Product) {
	if item, exists := c.items[p.ID]; exists {
		item.Quantity++
		return
	}
	c.items[p.ID] = &Item{Product: p, Quantity: 1}
	c.ids = append(c.ids, p.ID)
}

// UpdateQuantity sets the quantity for an existing entry. Quantities below 1
// are rejected; removal is a separate operation and is never implied by a
// quantity update.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	item, exists := c.items[productID]
	if !exists {
		return ErrItemNotFound
	}
	item.Quantity = quantity
	return nil
}

// RemoveItem deletes an entry. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	if _, exists := c.items[productID]; !exists {
		return
	}
	delete(c.items, productID)
	for i, id := range c.ids {
		if id == productID {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns the cart entries in insertion order.
func (c *Cart) Items() []Item {
	items := make([]Item, 0, len(c.ids))
	for _, id := range c.ids {
		items = append(items, *c.items[id])
	}
	return items
}

// Total returns the exact sum of price x quantity over all entries.
// The value is kept unrounded; rounding happens only at display time or when
// converting to minor currency units for the payment provider.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.ids {
		item := c.items[id]
		price := decimal.NewFromFloat(item.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// UnitAmountCents converts a price to integer minor currency units, rounding
// to the nearest cent. This is the last point where an amount is computed
// locally before the payment provider becomes authoritative.
func UnitAmountCents(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
