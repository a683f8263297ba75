package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/techhaven/storefront/internal/emailcheck"
	"github.com/techhaven/storefront/internal/models"
	"github.com/techhaven/storefront/internal/notify"
	"github.com/techhaven/storefront/internal/repository"
)

var (
	ErrBlockedEmail = errors.New("email domain is not allowed")
	ErrInvalidCode  = errors.New("verification code is not valid")
	ErrExpiredCode  = errors.New("verification code has expired")
)

const (
	otpTTL       = 10 * time.Minute
	otpCodeSpace = 1000000 // codes are uniform over 000000-999999
)

// OTPService issues and verifies one-time email verification codes.
type OTPService struct {
	store     repository.OTPRepository
	notifier  notify.Notifier
	blocklist *emailcheck.Blocklist
	log       *slog.Logger
}

// NewOTPService creates a new OTP verifier. The blocklist may be nil, in
// which case no domain filtering happens.
func NewOTPService(store repository.OTPRepository, notifier notify.Notifier, blocklist *emailcheck.Blocklist, log *slog.Logger) *OTPService {
	return &OTPService{
		store:     store,
		notifier:  notifier,
		blocklist: blocklist,
		log:       log,
	}
}

// Issue generates a fresh 6-digit code for the email with a 10-minute
// expiry, replacing any earlier unconsumed code so that only the most recent
// one validates. Returns the code lifetime in seconds.
func (s *OTPService) Issue(ctx context.Context, email string) (int, error) {
	if !validEmail(email) {
		return 0, ErrInvalidEmail
	}
	if s.blocklist != nil && s.blocklist.IsBlocked(email) {
		return 0, ErrBlockedEmail
	}

	code, err := generateCode()
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}

	record := models.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.store.Save(ctx, record); err != nil {
		return 0, fmt.Errorf("save otp: %w", err)
	}

	expiresIn := int(otpTTL.Seconds())

	// The code is stored and usable even if the email never goes out; the
	// user can request a resend.
	if err := s.notifier.SendVerification(ctx, notify.VerificationEmail{
		To:        email,
		Code:      code,
		ExpiresIn: expiresIn,
	}); err != nil {
		s.log.Error("failed to dispatch verification email", "email", email, "error", err)
	}

	s.log.Info("otp issued", "email", email, "expires_in", expiresIn)
	return expiresIn, nil
}

// Verify checks a submitted code against the latest record for the email
// and marks it consumed on success. A consumed code is no longer valid, so
// re-verifying after success is rejected. Expiry wins over a matching code.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	record, err := s.store.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}
	if record == nil || record.Code != code || record.Verified {
		return ErrInvalidCode
	}
	if time.Now().After(record.ExpiresAt) {
		return ErrExpiredCode
	}

	if err := s.store.MarkVerified(ctx, email); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	s.log.Info("email verified", "email", email)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
