package campaign

import (
	"context"
	"time"

	"github.com/ignite/guest-marketing/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Campaign, error)

	// List returns up to limit campaigns, newest first.
	List(ctx context.Context, limit int) ([]domain.Campaign, error)

	// Create inserts a new campaign.
	Create(ctx context.Context, c *domain.Campaign) error

	// MarkSent stamps sent_at and audience_count. Returns ErrNotFound if the
	// campaign doesn't exist.
	MarkSent(ctx context.Context, id string, sentAt time.Time, audienceCount int) error
}

// AudienceResolver computes the recipients of a send.
// *audience.Service satisfies it.
type AudienceResolver interface {
	Emails(ctx context.Context, segment domain.Segment, asOf *domain.Date, optedInOnly bool) (*domain.Audience, error)
}

// ContactLookup finds the contact a preview is rendered for.
// *contact.Service satisfies it.
type ContactLookup interface {
	Get(ctx context.Context, email string) (*domain.Contact, error)
}
