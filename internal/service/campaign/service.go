package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/pkg/logger"
	"github.com/ignite/guest-marketing/internal/service/contact"
)

// Service implements campaign business logic.
type Service struct {
	repo     Repository
	audience AudienceResolver
	contacts ContactLookup
	renderer *Renderer
	now      func() time.Time
}

// NewService creates a campaign service backed by the given repository.
func NewService(repo Repository, audience AudienceResolver, contacts ContactLookup) *Service {
	return &Service{
		repo:     repo,
		audience: audience,
		contacts: contacts,
		renderer: NewRenderer(),
		now:      time.Now,
	}
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Create validates and persists a new draft campaign. Subject and HTML must
// parse as Liquid templates.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Campaign, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.HTML) == "" {
		return nil, ErrMissingField
	}
	if err := s.renderer.Validate(in.Subject); err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	if err := s.renderer.Validate(in.HTML); err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}

	c := &domain.Campaign{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Subject:   in.Subject,
		HTML:      in.HTML,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, id)
}

// List returns the newest campaigns. limit is clamped to
// [1, domain.MaxListLimit].
func (s *Service) List(ctx context.Context, limit int) ([]domain.Campaign, error) {
	return s.repo.List(ctx, domain.ClampLimit(limit))
}

// SendResult is what the send stub reports.
type SendResult struct {
	CampaignID string   `json:"campaign_id"`
	Recipients []string `json:"recipients"`
	Count      int      `json:"count"`
}

// Send resolves today's audience for segment and records the send on the
// campaign. No mail is delivered. Sending again re-stamps the campaign.
func (s *Service) Send(ctx context.Context, id string, segment domain.Segment, optedInOnly bool) (*SendResult, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	aud, err := s.audience.Emails(ctx, segment, nil, optedInOnly)
	if err != nil {
		return nil, fmt.Errorf("resolve audience: %w", err)
	}

	if err := s.repo.MarkSent(ctx, id, s.now().UTC(), aud.Count); err != nil {
		return nil, fmt.Errorf("mark campaign sent: %w", err)
	}

	logger.Info("campaign send recorded", "campaign_id", id,
		"segment", string(segment), "opted_in_only", optedInOnly, "recipients", aud.Count)

	return &SendResult{CampaignID: id, Recipients: aud.Emails, Count: aud.Count}, nil
}

// Preview is a campaign rendered for one recipient.
type Preview struct {
	CampaignID string `json:"campaign_id"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	HTML       string `json:"html"`
}

// Preview renders the campaign's subject and HTML for email. Unknown emails
// render with the default greeting names.
func (s *Service) Preview(ctx context.Context, id, email string) (*Preview, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email = domain.NormalizeEmail(email)
	var ct *domain.Contact
	if email != "" {
		ct, err = s.contacts.Get(ctx, email)
		if err != nil && !errors.Is(err, contact.ErrNotFound) {
			return nil, fmt.Errorf("look up contact: %w", err)
		}
	}
	bindings := Bindings(email, ct)

	subject, err := s.renderer.Render(c.ID+":subject", c.Subject, bindings)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	html, err := s.renderer.Render(c.ID+":html", c.HTML, bindings)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}

	return &Preview{CampaignID: id, Email: email, Subject: subject, HTML: html}, nil
}
