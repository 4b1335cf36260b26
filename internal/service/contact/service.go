package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/guest-marketing/internal/domain"
)

// Service implements contact business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a contact service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// OptIn marks the contact as opted in and clears any unsubscribe stamp,
// creating the contact with the given names if it does not exist yet.
func (s *Service) OptIn(ctx context.Context, email, firstName, lastName string) (*domain.Contact, error) {
	return s.setConsent(ctx, email, firstName, lastName, func(c *domain.Contact, now time.Time) {
		c.OptedIn = true
		c.UnsubscribedAt = nil
	})
}

// Unsubscribe clears opt-in and stamps unsubscribed_at, creating the contact
// if it does not exist yet.
func (s *Service) Unsubscribe(ctx context.Context, email, firstName, lastName string) (*domain.Contact, error) {
	return s.setConsent(ctx, email, firstName, lastName, func(c *domain.Contact, now time.Time) {
		c.OptedIn = false
		c.UnsubscribedAt = &now
	})
}

func (s *Service) setConsent(ctx context.Context, email, firstName, lastName string, apply func(*domain.Contact, time.Time)) (*domain.Contact, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	now := s.now().UTC()

	c, err := s.findOrNew(ctx, email, firstName, lastName, now)
	if err != nil {
		return nil, err
	}
	apply(c, now)
	c.UpdatedAt = now

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return c, nil
}

// RecordGuest creates or refreshes the contact for a reservation's guest.
// Names are only filled where the contact has none; consent state is left
// alone. An email that is blank after normalization is ignored.
func (s *Service) RecordGuest(ctx context.Context, email, firstName, lastName string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	now := s.now().UTC()

	c, err := s.findOrNew(ctx, email, firstName, lastName, now)
	if err != nil {
		return err
	}
	if c.FirstName == "" {
		c.FirstName = firstName
	}
	if c.LastName == "" {
		c.LastName = lastName
	}
	c.UpdatedAt = now

	if err := s.repo.Save(ctx, c); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *Service) findOrNew(ctx context.Context, email, firstName, lastName string, now time.Time) (*domain.Contact, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &domain.Contact{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Get returns the contact for an email.
func (s *Service) Get(ctx context.Context, email string) (*domain.Contact, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	return s.repo.FindByEmail(ctx, email)
}

// List returns recently updated contacts. limit is clamped to
// [1, domain.MaxListLimit].
func (s *Service) List(ctx context.Context, limit int) ([]domain.Contact, error) {
	return s.repo.List(ctx, domain.ClampLimit(limit))
}

// OptedInEmails returns the set of emails that may receive marketing mail.
func (s *Service) OptedInEmails(ctx context.Context) (map[string]struct{}, error) {
	emails, err := s.repo.OptedInEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("opted-in emails: %w", err)
	}
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[domain.NormalizeEmail(e)] = struct{}{}
	}
	return set, nil
}
