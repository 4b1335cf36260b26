package reservation

import (
	"context"

	"github.com/ignite/guest-marketing/internal/domain"
)

// Repository defines the data access contract for reservations.
type Repository interface {
	// FindByKey returns the reservation with the given natural key, or
	// ErrNotFound.
	FindByKey(ctx context.Context, key domain.ReservationKey) (*domain.Reservation, error)

	// Save inserts the reservation or overwrites the one with the same
	// natural key.
	Save(ctx context.Context, r *domain.Reservation) error

	// All returns every reservation. Used for segmentation scans.
	All(ctx context.Context) ([]domain.Reservation, error)

	// List returns up to limit reservations, most recently updated first.
	List(ctx context.Context, limit int) ([]domain.Reservation, error)
}

// Source pulls raw reservation payloads from the property-management system.
// *cloudbeds.Client satisfies it.
type Source interface {
	PropertyID() string
	GetReservations(ctx context.Context, start, end domain.Date) ([]domain.Payload, error)
}

// ContactRecorder derives marketing contacts from reservation guests.
// *contact.Service satisfies it.
type ContactRecorder interface {
	RecordGuest(ctx context.Context, email, firstName, lastName string) error
}
