package contact

import (
	"context"

	"github.com/ignite/guest-marketing/internal/domain"
)

// Repository defines the data access contract for contacts.
type Repository interface {
	// FindByEmail returns the contact with the given normalized email, or
	// ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.Contact, error)

	// Save inserts or replaces the contact keyed by email.
	Save(ctx context.Context, c *domain.Contact) error

	// List returns up to limit contacts, most recently updated first.
	List(ctx context.Context, limit int) ([]domain.Contact, error)

	// OptedInEmails returns the emails of every contact that is opted in
	// and not unsubscribed.
	OptedInEmails(ctx context.Context) ([]string, error)
}
