// Package cart implements the visitor's shopping cart: ordered line items,
// the derived order totals and an in-memory store of carts keyed by session.
package cart

import (
	"errors"

	"github.com/fooddash/api/internal/catalog"
	"github.com/shopspring/decimal"
)

var (
	// DeliveryFee is charged once per non-empty cart.
	DeliveryFee = decimal.RequireFromString("5.00")
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.10")
)

// MaxQuantity is the most units of one item a line can hold.
const MaxQuantity = 99

// Errors returned by cart operations.
var (
	ErrLineNotFound    = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
	ErrInvalidItem     = errors.New("item id is required")
)

// Line is one catalog item plus a quantity inside the cart.
// A Line's quantity is always within 1..MaxQuantity.
type Line struct {
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageURL  string
}

// LineFor builds the line for a menu item. Quantity is set when it is added.
func LineFor(item catalog.MenuItem) Line {
	return Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		ImageURL:  item.ImageURL,
	}
}

// LineTotal is unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are the amounts derived from a set of lines. Values are exact;
// round only for display.
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	ItemCount   int
}

// ComputeTotals derives subtotal, delivery fee, tax and grand total.
// An empty sequence yields all zeros.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
		count += l.Quantity
	}

	fee := decimal.Zero
	if len(lines) > 0 {
		fee = DeliveryFee
	}
	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
		ItemCount:   count,
	}
}

// Cart is an ordered collection of lines plus free-text instructions for the
// restaurant. The zero value is an empty cart. Not safe for concurrent use;
// Store serializes access.
type Cart struct {
	lines        []Line
	instructions string
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Instructions returns the special instructions text.
func (c *Cart) Instructions() string { return c.instructions }

// SetInstructions replaces the special instructions text.
func (c *Cart) SetInstructions(s string) { c.instructions = s }

// Totals computes the totals for the current lines.
func (c *Cart) Totals() Totals { return ComputeTotals(c.lines) }

// Len is the number of distinct lines.
func (c *Cart) Len() int { return len(c.lines) }

// Add puts qty units of an item in the cart. If the item already has a line
// its quantity is increased, otherwise a new line is appended. A resulting
// quantity above MaxQuantity is rejected and leaves the cart unchanged.
func (c *Cart) Add(item Line, qty int) error {
	if item.ItemID == "" {
		return ErrInvalidItem
	}
	if qty <= 0 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if i := c.index(item.ItemID); i >= 0 {
		if qty > MaxQuantity-c.lines[i].Quantity {
			return ErrInvalidQuantity
		}
		c.lines[i].Quantity += qty
		return nil
	}
	item.Quantity = qty
	c.lines = append(c.lines, item)
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity below 1
// removes the line; one above MaxQuantity is rejected.
func (c *Cart) SetQuantity(itemID string, qty int) error {
	i := c.index(itemID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if qty < 1 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}
	c.lines[i].Quantity = qty
	return nil
}

// Adjust changes a line's quantity by delta, removing it when it drops below 1.
func (c *Cart) Adjust(itemID string, delta int) error {
	i := c.index(itemID)
	if i < 0 {
		return ErrLineNotFound
	}
	if delta > MaxQuantity-c.lines[i].Quantity {
		return ErrInvalidQuantity
	}
	return c.SetQuantity(itemID, c.lines[i].Quantity+delta)
}

// Remove deletes a line.
func (c *Cart) Remove(itemID string) error {
	return c.SetQuantity(itemID, 0)
}

// Clear empties the cart, including instructions.
func (c *Cart) Clear() {
	c.lines = nil
	c.instructions = ""
}

func (c *Cart) index(itemID string) int {
	for i, l := range c.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}
