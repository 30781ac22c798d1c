package repositories

import (
	"sync"
	"time"

	"careintake/internal/models"
)

// VerificationRepository holds verification state in memory only. Entries
// die with the process; in a multi-instance deployment this would have to
// become a shared expiring store keyed by email.
type VerificationRepository struct {
	mu      sync.Mutex
	entries map[string]*models.VerificationEntry
}

func NewVerificationRepository() *VerificationRepository {
	return &VerificationRepository{entries: make(map[string]*models.VerificationEntry)}
}

// Get returns a detached copy of the entry for email, expired or not.
// Expiry handling belongs to the service layer, which decides between
// Expired and NotFound. Copying keeps every field access under the lock;
// callers persist changes with Set.
func (r *VerificationRepository) Get(email string) *models.VerificationEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[email]
	if !ok {
		return nil
	}
	detached := *entry
	return &detached
}

func (r *VerificationRepository) Set(entry *models.VerificationEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *entry
	r.entries[entry.Email] = &stored
}

func (r *VerificationRepository) Delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, email)
}

// Sweep drops every entry whose TTL has passed. Runs opportunistically at
// the start of store-touching operations, there is no background timer.
func (r *VerificationRepository) Sweep() {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, entry := range r.entries {
		if now.After(entry.ExpiresAt) {
			delete(r.entries, email)
		}
	}
}

func (r *VerificationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
