package models

import "time"

// VerificationEntry — one record per email currently mid-verification.
// Only the bcrypt hash of the code is kept (CodeHash), never the code itself.
type VerificationEntry struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Verified  bool      `json:"verified"`
}
