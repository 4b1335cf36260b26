package audience

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ignite/guest-marketing/internal/domain"
)

// ReservationReader is the slice of the reservation store segmentation needs.
type ReservationReader interface {
	All(ctx context.Context) ([]domain.Reservation, error)
}

// ConsentReader reports which emails may receive marketing mail.
type ConsentReader interface {
	OptedInEmails(ctx context.Context) (map[string]struct{}, error)
}

// Service computes audiences.
type Service struct {
	reservations ReservationReader
	consent      ConsentReader
	now          func() time.Time
}

// NewService creates an audience service.
func NewService(reservations ReservationReader, consent ConsentReader) *Service {
	return &Service{reservations: reservations, consent: consent, now: time.Now}
}

// Today returns the current UTC calendar date.
func (s *Service) Today() domain.Date {
	return domain.DateOf(s.now().UTC())
}

// Emails returns the guests in segment as of the given date (today when nil).
// Only active reservations with a guest email and both stay dates count.
// With optedInOnly, guests who are not opted in, or who unsubscribed, are
// dropped.
func (s *Service) Emails(ctx context.Context, segment domain.Segment, asOf *domain.Date, optedInOnly bool) (*domain.Audience, error) {
	d := s.Today()
	if asOf != nil {
		d = *asOf
	}

	rows, err := s.reservations.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan reservations: %w", err)
	}

	set := make(map[string]struct{})
	for _, r := range rows {
		email := domain.NormalizeEmail(r.GuestEmail)
		if email == "" || r.CheckIn == nil || r.CheckOut == nil {
			continue
		}
		if !domain.IsActiveStatus(r.Status) {
			continue
		}
		if segment.Matches(*r.CheckIn, *r.CheckOut, d) {
			set[email] = struct{}{}
		}
	}

	if optedInOnly {
		allowed, err := s.consent.OptedInEmails(ctx)
		if err != nil {
			return nil, err
		}
		for e := range set {
			if _, ok := allowed[e]; !ok {
				delete(set, e)
			}
		}
	}

	emails := make([]string, 0, len(set))
	for e := range set {
		emails = append(emails, e)
	}
	sort.Strings(emails)

	return &domain.Audience{
		Segment: segment,
		AsOf:    d,
		Count:   len(emails),
		Emails:  emails,
	}, nil
}
