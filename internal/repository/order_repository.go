package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/techhaven/storefront/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines persistence for purchase records.
type OrderRepository interface {
	// Create persists a new pending order. The row must exist before the
	// customer reaches the payment provider.
	Create(ctx context.Context, order *models.Order) error

	// GetBySessionID returns the order tagged with the given checkout
	// session identifier.
	GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error)

	// MarkPaid transitions the order for sessionID from pending to paid.
	// The update is conditional on the current status so that replaying the
	// payment callback cannot apply the transition twice. It returns true
	// when this call performed the transition and false when the order was
	// already paid.
	MarkPaid(ctx context.Context, sessionID string) (bool, error)

	// FindRecent returns the most recently created orders, newest first.
	FindRecent(ctx context.Context, limit int) ([]models.Order, error)
}

// InMemoryOrderRepository implements OrderRepository with a mutex-guarded
// map. Used in tests and local development without a database.
type InMemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*models.Order // keyed by session ID
}

// NewInMemoryOrderRepository creates an empty in-memory order repository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]*models.Order),
	}
}

func (r *InMemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *order
	r.orders[order.SessionID] = &stored
	return nil
}

func (r *InMemoryOrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[sessionID]
	if !exists {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *InMemoryOrderRepository) MarkPaid(ctx context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[sessionID]
	if !exists {
		return false, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return false, nil
	}
	order.Status = models.OrderStatusPaid
	order.UpdatedAt = time.Now()
	return true, nil
}

func (r *InMemoryOrderRepository) FindRecent(ctx context.Context, limit int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}
