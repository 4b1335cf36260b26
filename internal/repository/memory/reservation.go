package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/service/reservation"
)

// ReservationRepo implements reservation.Repository in memory.
type ReservationRepo struct {
	mu   sync.RWMutex
	rows map[domain.ReservationKey]domain.Reservation
}

// NewReservationRepo creates an empty reservation store.
func NewReservationRepo() *ReservationRepo {
	return &ReservationRepo{rows: make(map[domain.ReservationKey]domain.Reservation)}
}

func (r *ReservationRepo) FindByKey(_ context.Context, key domain.ReservationKey) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[key]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return &row, nil
}

func (r *ReservationRepo) Save(_ context.Context, res *domain.Reservation) error {
	key := res.Key()
	if !key.Valid() {
		return reservation.ErrMissingKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *res
	if existing, ok := r.rows[key]; ok {
		row.ID = existing.ID
	}
	r.rows[key] = row
	return nil
}

func (r *ReservationRepo) All(_ context.Context) ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Reservation, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *ReservationRepo) List(ctx context.Context, limit int) ([]domain.Reservation, error) {
	out, _ := r.All(ctx)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
