package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
)

// Entry is one product line in a visitor's cart. The unit price and
// stock are snapshots taken when the entry was last set; Subtotal is
// always UnitPrice * Quantity.
type Entry struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func NewEntry(productID int64, name string, unitPrice decimal.Decimal, quantity, stock int) (Entry, error) {
	if quantity < 1 {
		return Entry{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return Entry{}, ErrInvalidPrice
	}
	return Entry{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Stock:     stock,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Cart is the per-session cart state. It is loaded from and saved to a
// session-scoped store on every mutation; last write wins across
// concurrent requests from the same session.
type Cart struct {
	Entries map[int64]Entry `json:"entries"`
}

func New() Cart {
	return Cart{Entries: map[int64]Entry{}}
}

// Set overwrites any existing entry for the product. Re-adding replaces
// the quantity rather than accumulating it.
func (c *Cart) Set(e Entry) {
	if c.Entries == nil {
		c.Entries = map[int64]Entry{}
	}
	c.Entries[e.ProductID] = e
}

// Remove reports whether the product was present.
func (c *Cart) Remove(productID int64) bool {
	if _, ok := c.Entries[productID]; !ok {
		return false
	}
	delete(c.Entries, productID)
	return true
}

func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Count is the total number of units across all entries.
func (c Cart) Count() int {
	var n int
	for _, e := range c.Entries {
		n += e.Quantity
	}
	return n
}

// Subtotal is the sum of entry subtotals, rounded to two decimal places.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		total = total.Add(e.Subtotal)
	}
	return total.Round(2)
}
