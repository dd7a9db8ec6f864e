package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func snapshot(name string, priceCents int) ProductSnapshot {
	return ProductSnapshot{
		ProductID:      uuid.New(),
		Name:           name,
		UnitPriceCents: priceCents,
	}
}

func TestCartAddItemIncrementsExistingLine(t *testing.T) {
	green := snapshot("Green Machine", 799)

	var c Cart
	c.AddItem(green)
	c.AddItem(green)

	assert.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 1598, c.SubtotalCents())
}

func TestCartAddItemKeepsDistinctProductsSeparate(t *testing.T) {
	var c Cart
	c.AddItem(snapshot("Green Machine", 799))
	c.AddItem(snapshot("Berry Blast", 849))

	assert.Len(t, c.Lines, 2)
	assert.Equal(t, 1648, c.SubtotalCents())
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	green := snapshot("Green Machine", 799)

	var c Cart
	c.AddItem(green)
	c.SetQuantity(green.ProductID, 0)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.SubtotalCents())
}

func TestCartSetQuantityNegativeRemovesLine(t *testing.T) {
	green := snapshot("Green Machine", 799)

	var c Cart
	c.AddItem(green)
	c.SetQuantity(green.ProductID, -3)

	assert.True(t, c.IsEmpty())
}

func TestCartSetQuantityUpdatesLine(t *testing.T) {
	green := snapshot("Green Machine", 799)

	var c Cart
	c.AddItem(green)
	c.SetQuantity(green.ProductID, 5)

	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 3995, c.SubtotalCents())
}

func TestCartRemoveAbsentProductIsNoOp(t *testing.T) {
	var c Cart
	c.AddItem(snapshot("Green Machine", 799))
	c.RemoveItem(uuid.New())

	assert.Len(t, c.Lines, 1)
}

func TestCartClearEmptiesAllLines(t *testing.T) {
	var c Cart
	c.AddItem(snapshot("Green Machine", 799))
	c.AddItem(snapshot("Berry Blast", 849))
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.SubtotalCents())
}
