package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/service/contact"
)

// ContactRepo implements contact.Repository in memory.
type ContactRepo struct {
	mu   sync.RWMutex
	rows map[string]domain.Contact // keyed by email
}

// NewContactRepo creates an empty contact store.
func NewContactRepo() *ContactRepo {
	return &ContactRepo{rows: make(map[string]domain.Contact)}
}

func (r *ContactRepo) FindByEmail(_ context.Context, email string) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[email]
	if !ok {
		return nil, contact.ErrNotFound
	}
	return &c, nil
}

func (r *ContactRepo) Save(_ context.Context, c *domain.Contact) error {
	if c.Email == "" {
		return contact.ErrInvalidEmail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *c
	if existing, ok := r.rows[c.Email]; ok {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}
	r.rows[c.Email] = row
	return nil
}

func (r *ContactRepo) List(_ context.Context, limit int) ([]domain.Contact, error) {
	r.mu.RLock()
	out := make([]domain.Contact, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Email < out[j].Email
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ContactRepo) OptedInEmails(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, c := range r.rows {
		if c.Mailable() {
			out = append(out, c.Email)
		}
	}
	sort.Strings(out)
	return out, nil
}
