package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/service/reservation"
)

const reservationColumns = `id, cloudbeds_reservation_id, cloudbeds_property_id, status,
		check_in, check_out, guest_email, guest_first_name, guest_last_name,
		source, raw, updated_at`

// ReservationRepo implements reservation.Repository against PostgreSQL.
type ReservationRepo struct{ db *sql.DB }

// NewReservationRepo creates a Postgres-backed reservation repository.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func (r *ReservationRepo) FindByKey(ctx context.Context, key domain.ReservationKey) (*domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE cloudbeds_reservation_id = $1 AND cloudbeds_property_id = $2
	`, key.ReservationID, key.PropertyID)

	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reservation.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// Save upserts on (cloudbeds_reservation_id, cloudbeds_property_id). Every
// non-key column is overwritten; the stored id wins over res.ID.
func (r *ReservationRepo) Save(ctx context.Context, res *domain.Reservation) error {
	if !res.Key().Valid() {
		return reservation.ErrMissingKey
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	raw, err := json.Marshal(res.Raw)
	if err != nil {
		return fmt.Errorf("encode raw payload: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (cloudbeds_reservation_id, cloudbeds_property_id) DO UPDATE SET
			status = EXCLUDED.status,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			guest_email = EXCLUDED.guest_email,
			guest_first_name = EXCLUDED.guest_first_name,
			guest_last_name = EXCLUDED.guest_last_name,
			source = EXCLUDED.source,
			raw = EXCLUDED.raw,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`, res.ID, res.CloudbedsReservationID, res.CloudbedsPropertyID, res.Status,
		res.CheckIn, res.CheckOut, res.GuestEmail, res.GuestFirstName, res.GuestLastName,
		res.Source, raw, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) All(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations`)
	if err != nil {
		return nil, fmt.Errorf("scan reservations: %w", err)
	}
	return collectReservations(rows)
}

func (r *ReservationRepo) List(ctx context.Context, limit int) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		ORDER BY updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return collectReservations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*domain.Reservation, error) {
	var (
		res domain.Reservation
		raw []byte
	)
	err := s.Scan(
		&res.ID, &res.CloudbedsReservationID, &res.CloudbedsPropertyID, &res.Status,
		&res.CheckIn, &res.CheckOut, &res.GuestEmail, &res.GuestFirstName, &res.GuestLastName,
		&res.Source, &raw, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&res.Raw); err != nil {
			return nil, fmt.Errorf("decode raw payload: %w", err)
		}
	}
	return &res, nil
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	defer rows.Close()
	out := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}
