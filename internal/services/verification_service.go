package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"careintake/internal/models"
	"careintake/internal/repositories"
)

var (
	ErrInvalidEmail    = errors.New("valid email is required")
	ErrRateLimited     = errors.New("resend throttled")
	ErrCodeNotFound    = errors.New("no verification request found")
	ErrCodeExpired     = errors.New("code expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCodeInvalid     = errors.New("code invalid")
)

const (
	codeTTL           = 15 * time.Minute
	resendWindow      = 1 * time.Minute
	maxVerifyAttempts = 3
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// VerificationService owns the code lifecycle: issue, throttle, expire,
// count attempts, flip verified.
type VerificationService struct {
	Repo  *repositories.VerificationRepository
	Email EmailService
}

func NewVerificationService(repo *repositories.VerificationRepository, email EmailService) *VerificationService {
	return &VerificationService{Repo: repo, Email: email}
}

// 6-digit code in [100000, 999999]
func (s *VerificationService) generateCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// IssueCode generates a fresh code for email and mails it. An entry issued
// less than a minute ago blocks reissue; otherwise the new entry overwrites
// the old one. The entry is written before the send, so a relay failure
// leaves it in place and the resend window still applies.
func (s *VerificationService) IssueCode(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	s.Repo.Sweep()

	if existing := s.Repo.Get(email); existing != nil {
		if time.Now().Before(existing.ExpiresAt.Add(-(codeTTL - resendWindow))) {
			return ErrRateLimited
		}
	}

	code := s.generateCode()
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}

	now := time.Now()
	s.Repo.Set(&models.VerificationEntry{
		Email:     email,
		CodeHash:  string(codeHash),
		SentAt:    now,
		ExpiresAt: now.Add(codeTTL),
	})

	if err := s.Email.SendVerificationCode(email, code); err != nil {
		return err
	}

	log.Printf("[intake][issue] code sent email=%s", email)
	return nil
}

// VerifyCode checks submittedCode against the stored hash. The attempt cap
// is evaluated before the comparison, so a 4th submission fails with
// ErrTooManyAttempts even when the code would have matched. A correct code
// against an already-verified entry succeeds again (retry-safe client).
// Unlike IssueCode and Submit this skips the global sweep and handles its
// own entry's expiry inline: sweeping first would delete a stale entry and
// report it as never-requested instead of expired.
func (s *VerificationService) VerifyCode(email, submittedCode string) error {
	entry := s.Repo.Get(email)
	if entry == nil {
		return ErrCodeNotFound
	}
	if time.Now().After(entry.ExpiresAt) {
		s.Repo.Delete(email)
		return ErrCodeExpired
	}
	if entry.Attempts >= maxVerifyAttempts {
		s.Repo.Delete(email)
		return ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.CodeHash), []byte(submittedCode)) != nil {
		entry.Attempts++
		s.Repo.Set(entry)
		return ErrCodeInvalid
	}

	entry.Verified = true
	s.Repo.Set(entry)
	log.Printf("[intake][verify] OK email=%s", email)
	return nil
}
