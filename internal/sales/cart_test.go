package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/catalog"
)

func prod(id string, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: "Produk " + id, Price: price, Category: catalog.CategoryFood, Stock: 10}
}

func TestCartAddItemIncrementsExistingLine(t *testing.T) {
	c := NewCart()
	c.AddItem(prod("a", 10000))
	c.AddItem(prod("a", 10000))
	c.AddItem(prod("b", 5000))

	lines := c.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestCartChangeQuantity(t *testing.T) {
	c := NewCart()
	c.AddItem(prod("a", 10000))
	c.ChangeQuantity("a", 3)
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	// driving below zero clamps and removes the line
	c.ChangeQuantity("a", -10)
	assert.True(t, c.Empty())

	// unknown product is a no-op
	c.ChangeQuantity("zzz", 1)
	assert.True(t, c.Empty())
}

func TestCartTotalsIncludeTax(t *testing.T) {
	c := NewCart()
	c.AddItem(prod("a", 25000))
	c.AddItem(prod("a", 25000))
	c.AddItem(prod("b", 8000))

	assert.InDelta(t, 58000, c.Subtotal(), 1e-9)
	assert.InDelta(t, 58000*1.1, c.Total(), 1e-9)
}

func TestCartClear(t *testing.T) {
	c := NewCart()
	c.AddItem(prod("a", 10000))
	c.Clear()
	assert.True(t, c.Empty())
	assert.Zero(t, c.Subtotal())
}

func TestCartLinesReturnsCopy(t *testing.T) {
	c := NewCart()
	c.AddItem(prod("a", 10000))
	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
