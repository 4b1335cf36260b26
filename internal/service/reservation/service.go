package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/guest-marketing/internal/cloudbeds"
	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/pkg/distlock"
	"github.com/ignite/guest-marketing/internal/pkg/logger"
)

// Result counts what one ingestion batch did.
type Result struct {
	Pulled   int `json:"pulled"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// Service implements reservation ingestion.
type Service struct {
	repo     Repository
	contacts ContactRecorder
	source   Source
	lock     distlock.DistLock
	now      func() time.Time
}

// NewService creates a reservation service. source is only needed for Pull
// and lock may be nil, in which case pulls are not serialized.
func NewService(repo Repository, contacts ContactRecorder, source Source, lock distlock.DistLock) *Service {
	return &Service{
		repo:     repo,
		contacts: contacts,
		source:   source,
		lock:     lock,
		now:      time.Now,
	}
}

// Ingest normalizes and upserts each payload. A payload's own property id
// wins; propertyID only fills in for payloads that carry none. Payloads that
// still lack a reservation or property id are skipped. Only storage failures
// abort the batch; rows saved before the failure stay saved.
func (s *Service) Ingest(ctx context.Context, payloads []domain.Payload, propertyID string) (Result, error) {
	return s.ingest(ctx, payloads, func(p domain.Payload) string {
		if id := cloudbeds.PropertyIDOf(p); id != "" {
			return id
		}
		return propertyID
	})
}

func (s *Service) ingest(ctx context.Context, payloads []domain.Payload, propertyOf func(domain.Payload) string) (Result, error) {
	res := Result{Pulled: len(payloads)}

	for i, p := range payloads {
		n := cloudbeds.Normalize(p)
		n.PropertyID = propertyOf(p)

		err := s.upsert(ctx, n)
		switch {
		case errors.Is(err, ErrMissingKey):
			logger.Warn("skipping reservation payload", "index", i,
				"reservation_id", n.ReservationID, "property_id", n.PropertyID)
			res.Skipped++
			continue
		case err != nil:
			return res, err
		}
		res.Upserted++
	}

	logger.Info("reservations ingested",
		"pulled", res.Pulled, "upserted", res.Upserted, "skipped", res.Skipped)
	return res, nil
}

func (s *Service) upsert(ctx context.Context, n cloudbeds.NormalizedReservation) error {
	key := domain.ReservationKey{ReservationID: n.ReservationID, PropertyID: n.PropertyID}
	if !key.Valid() {
		return ErrMissingKey
	}

	r, err := s.repo.FindByKey(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		r = &domain.Reservation{
			ID:                     uuid.New().String(),
			CloudbedsReservationID: key.ReservationID,
			CloudbedsPropertyID:    key.PropertyID,
		}
	case err != nil:
		return fmt.Errorf("find reservation %s/%s: %w", key.PropertyID, key.ReservationID, err)
	}

	r.Status = n.Status
	r.CheckIn = n.CheckIn
	r.CheckOut = n.CheckOut
	r.GuestEmail = n.GuestEmail
	r.GuestFirstName = n.GuestFirstName
	r.GuestLastName = n.GuestLastName
	r.Source = n.Source
	r.Raw = n.Raw
	r.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, r); err != nil {
		return fmt.Errorf("save reservation %s/%s: %w", key.PropertyID, key.ReservationID, err)
	}

	if r.GuestEmail == "" {
		return nil
	}
	if err := s.contacts.RecordGuest(ctx, r.GuestEmail, r.GuestFirstName, r.GuestLastName); err != nil {
		return fmt.Errorf("record guest contact: %w", err)
	}
	return nil
}

// DefaultWindow is the pull range used when none is given: yesterday
// through thirty days out.
func DefaultWindow(today domain.Date) (start, end domain.Date) {
	return today.AddDays(-1), today.AddDays(30)
}

// PullDefault pulls DefaultWindow around today (UTC).
func (s *Service) PullDefault(ctx context.Context) (Result, error) {
	start, end := DefaultWindow(domain.DateOf(s.now().UTC()))
	return s.Pull(ctx, start, end)
}

// Pull fetches reservations for [start, end] from the source and files every
// one under the source's property id, whatever the payload says. Only one pull runs at a time when a
// lock is configured; a concurrent call gets ErrSyncInProgress.
func (s *Service) Pull(ctx context.Context, start, end domain.Date) (Result, error) {
	if end.Before(start) {
		return Result{}, ErrInvalidRange
	}
	if s.source == nil {
		return Result{}, cloudbeds.ErrMissingCredentials
	}

	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			return Result{}, ErrSyncInProgress
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("release sync lock", "error", err)
			}
		}()
	}

	payloads, err := s.source.GetReservations(ctx, start, end)
	if err != nil {
		return Result{}, err
	}
	propertyID := s.source.PropertyID()
	return s.ingest(ctx, payloads, func(domain.Payload) string { return propertyID })
}

// IngestWebhook accepts a decoded webhook body: a single payload object or a
// list of them. Non-object list elements are dropped. Any other shape is
// rejected with ErrMalformedBatch before anything is stored. propertyID is
// used only for payloads that do not name their own property.
func (s *Service) IngestWebhook(ctx context.Context, body any, propertyID string) (Result, error) {
	var payloads []domain.Payload
	switch b := body.(type) {
	case map[string]any:
		payloads = []domain.Payload{b}
	case []any:
		payloads = make([]domain.Payload, 0, len(b))
		for _, v := range b {
			if obj, ok := v.(map[string]any); ok && obj != nil {
				payloads = append(payloads, obj)
			}
		}
	default:
		return Result{}, ErrMalformedBatch
	}
	return s.Ingest(ctx, payloads, propertyID)
}

// Get returns one reservation by natural key.
func (s *Service) Get(ctx context.Context, key domain.ReservationKey) (*domain.Reservation, error) {
	if !key.Valid() {
		return nil, ErrMissingKey
	}
	return s.repo.FindByKey(ctx, key)
}

// List returns recently updated reservations. limit is clamped to
// [1, domain.MaxListLimit].
func (s *Service) List(ctx context.Context, limit int) ([]domain.Reservation, error) {
	return s.repo.List(ctx, domain.ClampLimit(limit))
}

// All returns every stored reservation.
func (s *Service) All(ctx context.Context) ([]domain.Reservation, error) {
	return s.repo.All(ctx)
}
