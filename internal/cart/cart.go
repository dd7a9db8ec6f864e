package cart

import "github.com/google/uuid"

// ProductSnapshot freezes the catalog fields a cart line needs. Later catalog
// edits never reach into a cart that already holds the product.
type ProductSnapshot struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
}

// Line is one product entry in a cart. A cart holds at most one line per
// product id.
type Line struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
}

// TotalCents is the derived line total.
func (l Line) TotalCents() int {
	return l.UnitPriceCents * l.Quantity
}

// Cart is the per-session aggregate of selected products. The subtotal is
// always derived from the lines, never stored.
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddItem increments the quantity when a line for the product exists,
// otherwise appends a new line with quantity 1.
func (c *Cart) AddItem(snapshot ProductSnapshot) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == snapshot.ProductID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID:      snapshot.ProductID,
		Name:           snapshot.Name,
		UnitPriceCents: snapshot.UnitPriceCents,
		Quantity:       1,
	})
}

// RemoveItem deletes the matching line. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity updates the line's quantity. A quantity of zero or less removes
// the line.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.Lines = nil
}

// SubtotalCents sums price times quantity across all lines.
func (c *Cart) SubtotalCents() int {
	total := 0
	for _, line := range c.Lines {
		total += line.TotalCents()
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
