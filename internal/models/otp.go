package models

import "time"

// OTPRecord is a one-time email verification code. Only the most recent
// record per email is kept; issuing a new code replaces the previous one.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Verified  bool      `json:"verified"`
}
