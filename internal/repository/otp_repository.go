package repository

import (
	"context"
	"sync"

	"github.com/techhaven/storefront/internal/models"
)

// OTPRepository defines storage for one-time verification codes.
// Save replaces any prior record for the same email, which is what makes
// re-issuing invalidate earlier codes.
type OTPRepository interface {
	Save(ctx context.Context, record models.OTPRecord) error

	// Get returns the latest record for the email, or nil when none exists.
	Get(ctx context.Context, email string) (*models.OTPRecord, error)

	// MarkVerified flags the record for the email as consumed.
	MarkVerified(ctx context.Context, email string) error
}

// InMemoryOTPRepository implements OTPRepository for tests and local
// development.
type InMemoryOTPRepository struct {
	mu      sync.Mutex
	records map[string]models.OTPRecord
}

// NewInMemoryOTPRepository creates an empty in-memory OTP repository.
func NewInMemoryOTPRepository() *InMemoryOTPRepository {
	return &InMemoryOTPRepository{
		records: make(map[string]models.OTPRecord),
	}
}

func (r *InMemoryOTPRepository) Save(ctx context.Context, record models.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.Email] = record
	return nil
}

func (r *InMemoryOTPRepository) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[email]
	if !exists {
		return nil, nil
	}
	return &record, nil
}

func (r *InMemoryOTPRepository) MarkVerified(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[email]
	if !exists {
		return nil
	}
	record.Verified = true
	r.records[email] = record
	return nil
}
