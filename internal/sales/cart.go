package sales

import "github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"

// Line is one product selection in an in-progress cart.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart accumulates the current selection for one terminal session. It is
// purely in-memory and single-session; callers own any synchronization.
type Cart struct {
	lines []Line
}

func NewCart() *Cart { return &Cart{} }

// AddItem puts one unit of p in the cart, incrementing the existing line when
// present. The requested quantity is not bounded by current stock; checkout
// clamps the decrement instead.
func (c *Cart) AddItem(p catalog.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// ChangeQuantity adjusts a line by delta, clamping at zero. A line driven to
// zero is removed. Unknown product IDs are ignored.
func (c *Cart) ChangeQuantity(productID string, delta int) {
	for i := range c.lines {
		if c.lines[i].Product.ID != productID {
			continue
		}
		q := c.lines[i].Quantity + delta
		if q < 0 {
			q = 0
		}
		if q == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = q
		}
		return
	}
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Product.Price * float64(l.Quantity)
	}
	return sum
}

func (c *Cart) Total() float64 {
	return c.Subtotal() * (1 + TaxRate)
}
