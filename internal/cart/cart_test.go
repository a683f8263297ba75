package cart

import (
	"testing"

	"github.com/techhaven/storefront/internal/models"
)

func product(id, name string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Price: price, InStock: true}
}

func TestCart_AddItem_MergesDuplicates(t *testing.T) {
	c := New()
	p := product("1", "Wireless Headphones", 89.99)

	c.AddItem(p)
	c.AddItem(p)

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after adding same product twice, got %d", c.Len())
	}

	items := c.Items()
	if items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestCart_Total(t *testing.T) {
	tests := []struct {
		name     string
		build    func(c *Cart)
		expected string
	}{
		{
			name:     "empty cart",
			build:    func(c *Cart) {},
			expected: "0",
		},
		{
			name: "example from pricing rules",
			build: func(c *Cart) {
				c.AddItem(product("1", "A", 10.00))
				c.AddItem(product("1", "A", 10.00))
				c.AddItem(product("2", "B", 5.50))
			},
			expected: "25.5",
		},
		{
			name: "float-hostile prices",
			build: func(c *Cart) {
				c.AddItem(product("1", "A", 0.10))
				c.AddItem(product("2", "B", 0.20))
			},
			expected: "0.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.build(c)

			if got := c.Total().String(); got != tt.expected {
				t.Errorf("Total() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCart_Total_StableUnderReordering(t *testing.T) {
	a := New()
	a.AddItem(product("1", "A", 12.99))
	a.AddItem(product("2", "B", 7.45))
	a.AddItem(product("3", "C", 199.00))

	b := New()
	b.AddItem(product("3", "C", 199.00))
	b.AddItem(product("1", "A", 12.99))
	b.AddItem(product("2", "B", 7.45))

	if !a.Total().Equal(b.Total()) {
		t.Errorf("totals differ under reordering: %s vs %s", a.Total(), b.Total())
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		wantErr   error
	}{
		{name: "valid update", productID: "1", quantity: 5, wantErr: nil},
		{name: "zero quantity rejected", productID: "1", quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity rejected", productID: "1", quantity: -3, wantErr: ErrInvalidQuantity},
		{name: "absent product", productID: "999", quantity: 2, wantErr: ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.AddItem(product("1", "A", 10.00))

			err := c.UpdateQuantity(tt.productID, tt.quantity)
			if err != tt.wantErr {
				t.Fatalf("UpdateQuantity() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && c.Items()[0].Quantity != tt.quantity {
				t.Errorf("quantity = %d, want %d", c.Items()[0].Quantity, tt.quantity)
			}

			// Rejected updates must leave the entry untouched
			if tt.wantErr == ErrInvalidQuantity && c.Items()[0].Quantity != 1 {
				t.Errorf("quantity changed after rejected update: %d", c.Items()[0].Quantity)
			}
		})
	}
}

func TestCart_RemoveItem_Idempotent(t *testing.T) {
	c := New()
	c.AddItem(product("1", "A", 10.00))
	c.AddItem(product("2", "B", 5.50))

	c.RemoveItem("1")
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after removal, got %d", c.Len())
	}

	// Removing again, and removing something never added, are no-ops
	c.RemoveItem("1")
	c.RemoveItem("does-not-exist")

	if c.Len() != 1 {
		t.Errorf("expected cart unchanged, got %d entries", c.Len())
	}
	if c.Items()[0].Product.ID != "2" {
		t.Errorf("wrong entry survived: %s", c.Items()[0].Product.ID)
	}
}

func TestCart_Items_InsertionOrder(t *testing.T) {
	c := New()
	c.AddItem(product("3", "C", 1.00))
	c.AddItem(product("1", "A", 2.00))
	c.AddItem(product("2", "B", 3.00))

	items := c.Items()
	want := []string{"3", "1", "2"}
	for i, id := range want {
		if items[i].Product.ID != id {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].Product.ID, id)
		}
	}
}

func TestUnitAmountCents(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{10.00, 1000},
		{5.50, 550},
		{0.10, 10},
		{89.99, 8999},
		{19.995, 2000}, // rounds to nearest cent
		{0, 0},
	}

	for _, tt := range tests {
		if got := UnitAmountCents(tt.price); got != tt.want {
			t.Errorf("UnitAmountCents(%v) = %d, want %d", tt.price, got, tt.want)
		}
	}
}
