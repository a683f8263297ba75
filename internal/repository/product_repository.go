package repository

import (
	"context"
	"errors"

	"github.com/techhaven/storefront/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines read-only access to the catalog. The catalog is
// owned by an external store; the storefront never writes to it.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// InMemoryProductRepository implements ProductRepository with seeded data.
type InMemoryProductRepository struct {
	products map[string]models.Product
	ids      []string
}

func price(v float64) *float64 { return &v }

// NewInMemoryProductRepository creates a product repository seeded with the
// storefront catalog.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	seed := []models.Product{
		{ID: "1", Name: "Wireless Noise-Canceling Headphones", Description: "Over-ear headphones with 30-hour battery life and active noise canceling.", Price: 89.99, OriginalPrice: price(129.99), ImageURL: "https://images.techhaven.dev/products/headphones.jpg", Rating: 4.6, ReviewCount: 1284, InStock: true, Category: "Audio"},
		{ID: "2", Name: "Mechanical Keyboard", Description: "Tenkeyless mechanical keyboard with hot-swappable switches.", Price: 74.50, ImageURL: "https://images.techhaven.dev/products/keyboard.jpg", Rating: 4.8, ReviewCount: 642, InStock: true, Category: "Accessories"},
		{ID: "3", Name: "4K Webcam", Description: "Ultra HD webcam with auto-framing and dual microphones.", Price: 119.00, OriginalPrice: price(149.00), ImageURL: "https://images.techhaven.dev/products/webcam.jpg", Rating: 4.3, ReviewCount: 310, InStock: true, Category: "Accessories"},
		{ID: "4", Name: "Smart Watch Series 8", Description: "Fitness tracking, heart-rate monitoring and a week of battery.", Price: 249.99, ImageURL: "https://images.techhaven.dev/products/smartwatch.jpg", Rating: 4.5, ReviewCount: 2051, InStock: true, Category: "Wearables"},
		{ID: "5", Name: "Portable SSD 1TB", Description: "USB-C portable solid state drive, 1050 MB/s read.", Price: 109.99, OriginalPrice: price(139.99), ImageURL: "https://images.techhaven.dev/products/ssd.jpg", Rating: 4.9, ReviewCount: 876, InStock: true, Category: "Storage"},
		{ID: "6", Name: "Gaming Mouse", Description: "Lightweight wireless gaming mouse with 26K DPI sensor.", Price: 59.99, ImageURL: "https://images.techhaven.dev/products/mouse.jpg", Rating: 4.7, ReviewCount: 1523, InStock: true, Category: "Accessories"},
		{ID: "7", Name: "USB-C Hub 8-in-1", Description: "HDMI 4K60, 100W PD passthrough, SD card reader and gigabit ethernet.", Price: 45.00, ImageURL: "https://images.techhaven.dev/products/hub.jpg", Rating: 4.2, ReviewCount: 431, InStock: true, Category: "Accessories"},
		{ID: "8", Name: "Bluetooth Speaker", Description: "Waterproof portable speaker with 24-hour playtime.", Price: 39.99, OriginalPrice: price(59.99), ImageURL: "https://images.techhaven.dev/products/speaker.jpg", Rating: 4.4, ReviewCount: 987, InStock: false, Category: "Audio"},
		{ID: "9", Name: "27-inch QHD Monitor", Description: "165Hz IPS display with 1ms response time.", Price: 299.00, ImageURL: "https://images.techhaven.dev/products/monitor.jpg", Rating: 4.6, ReviewCount: 755, InStock: true, Category: "Displays"},
		{ID: "10", Name: "Wireless Charging Pad", Description: "15W fast wireless charger with foreign-object detection.", Price: 24.99, ImageURL: "https://images.techhaven.dev/products/charger.jpg", Rating: 4.1, ReviewCount: 289, InStock: true, Category: "Accessories"},
	}

	products := make(map[string]models.Product, len(seed))
	ids := make([]string, 0, len(seed))
	for _, p := range seed {
		products[p.ID] = p
		ids = append(ids, p.ID)
	}

	return &InMemoryProductRepository{
		products: products,
		ids:      ids,
	}
}

// GetAll returns all products in catalog order.
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.ids))
	for _, id := range r.ids {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}
