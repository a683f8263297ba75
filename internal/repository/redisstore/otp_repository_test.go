package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techhaven/storefront/internal/models"
)

// These tests run against a real Redis instance and skip when none is
// reachable.

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSaveAndGet(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	repo := NewOTPRepository(client)

	const email = "test-otp@example.com"
	client.Del(ctx, otpKeyPrefix+email)

	record := models.OTPRecord{
		Email:     email,
		Code:      "042042",
		ExpiresAt: time.Now().Add(10 * time.Minute).Truncate(time.Millisecond),
	}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, email)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for stored record")
	}
	if got.Code != "042042" || got.Verified {
		t.Errorf("record = %+v", got)
	}
	if !got.ExpiresAt.Equal(record.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, record.ExpiresAt)
	}
}

func TestGet_Unknown(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	repo := NewOTPRepository(client)

	got, err := repo.Get(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestSave_OverwritesPreviousCode(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	repo := NewOTPRepository(client)

	const email = "test-otp@example.com"
	client.Del(ctx, otpKeyPrefix+email)

	first := models.OTPRecord{Email: email, Code: "111111", ExpiresAt: time.Now().Add(10 * time.Minute)}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	second := models.OTPRecord{Email: email, Code: "222222", ExpiresAt: time.Now().Add(10 * time.Minute)}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := repo.Get(ctx, email)
	if err != nil || got == nil {
		t.Fatalf("Get() = %+v, %v", got, err)
	}
	if got.Code != "222222" {
		t.Errorf("Code = %s, want 222222 (only the latest code may validate)", got.Code)
	}
}

func TestGet_ReturnsRecordPastExpiry(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	repo := NewOTPRepository(client)

	const email = "test-otp@example.com"
	client.Del(ctx, otpKeyPrefix+email)

	record := models.OTPRecord{
		Email:     email,
		Code:      "042042",
		ExpiresAt: time.Now().Add(50 * time.Millisecond),
	}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	// The record must outlive its logical expiry so the service can tell
	// an expired code apart from one that was never issued.
	got, err := repo.Get(ctx, email)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for expired record; expiry is the service's call, not Redis eviction")
	}
	if !time.Now().After(got.ExpiresAt) {
		t.Errorf("ExpiresAt %v not in the past", got.ExpiresAt)
	}

	ttl, err := client.TTL(ctx, otpKeyPrefix+email).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 {
		t.Errorf("key TTL = %v, want a positive retention window", ttl)
	}
}

func TestSave_RejectsAlreadyExpired(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	repo := NewOTPRepository(client)

	record := models.OTPRecord{
		Email:     "test-otp@example.com",
		Code:      "042042",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := repo.Save(context.Background(), record); err == nil {
		t.Error("Save() accepted a record that expired before storage")
	}
}

func TestMarkVerified_PreservesTTL(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	repo := NewOTPRepository(client)

	const email = "test-otp@example.com"
	client.Del(ctx, otpKeyPrefix+email)

	record := models.OTPRecord{Email: email, Code: "042042", ExpiresAt: time.Now().Add(10 * time.Minute)}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	before, err := client.TTL(ctx, otpKeyPrefix+email).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}

	if err := repo.MarkVerified(ctx, email); err != nil {
		t.Fatalf("MarkVerified() error = %v", err)
	}

	got, err := repo.Get(ctx, email)
	if err != nil || got == nil {
		t.Fatalf("Get() = %+v, %v", got, err)
	}
	if !got.Verified {
		t.Error("record not marked verified")
	}

	// Verification must not extend the record's lifetime
	after, err := client.TTL(ctx, otpKeyPrefix+email).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if after > before {
		t.Errorf("TTL grew from %v to %v on MarkVerified", before, after)
	}
	if after <= 0 {
		t.Errorf("TTL = %v after MarkVerified, want positive", after)
	}
}

func TestMarkVerified_UnknownEmailIsNoOp(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	repo := NewOTPRepository(client)

	if err := repo.MarkVerified(context.Background(), "nobody@example.com"); err != nil {
		t.Errorf("MarkVerified() error = %v, want nil", err)
	}
}
