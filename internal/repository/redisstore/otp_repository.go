package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techhaven/storefront/internal/models"
)

const otpKeyPrefix = "otp:"

// expiredRetention keeps records in Redis past their logical expiry. The
// expiry decision belongs to the service layer, which needs to see the
// expired record to distinguish "code expired" from "code never issued";
// eviction at the exact ExpiresAt would collapse both into a missing key.
const expiredRetention = time.Hour

// OTPRepository implements repository.OTPRepository on Redis. Keys carry a
// TTL, so stale rows never need cleanup.
type OTPRepository struct {
	client *redis.Client
}

// NewOTPRepository creates a Redis-backed OTP repository.
func NewOTPRepository(client *redis.Client) *OTPRepository {
	return &OTPRepository{client: client}
}

func (r *OTPRepository) Save(ctx context.Context, record models.OTPRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("otp record already expired")
	}
	ttl += expiredRetention

	// SET overwrites any previous code for this email, so only the most
	// recent code can ever validate.
	if err := r.client.Set(ctx, otpKeyPrefix+record.Email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store otp record: %w", err)
	}
	return nil
}

func (r *OTPRepository) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	payload, err := r.client.Get(ctx, otpKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load otp record: %w", err)
	}

	var record models.OTPRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal otp record: %w", err)
	}
	return &record, nil
}

func (r *OTPRepository) MarkVerified(ctx context.Context, email string) error {
	record, err := r.Get(ctx, email)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	record.Verified = true
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}

	// KeepTTL preserves the original expiry; verification does not extend
	// the record's lifetime.
	if err := r.client.Set(ctx, otpKeyPrefix+email, payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("update otp record: %w", err)
	}
	return nil
}
