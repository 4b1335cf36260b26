package domain

import (
	"strings"
	"time"
)

// Payload is an upstream reservation payload of unknown shape, as decoded
// from JSON.
type Payload = map[string]any

// Reservation is one booking at one property, keyed by the Cloudbeds
// reservation id and property id.
type Reservation struct {
	ID                     string    `json:"id" db:"id"`
	CloudbedsReservationID string    `json:"cloudbeds_reservation_id" db:"cloudbeds_reservation_id"`
	CloudbedsPropertyID    string    `json:"cloudbeds_property_id" db:"cloudbeds_property_id"`
	Status                 string    `json:"status" db:"status"`
	CheckIn                *Date     `json:"check_in" db:"check_in"`
	CheckOut               *Date     `json:"check_out" db:"check_out"`
	GuestEmail             string    `json:"guest_email" db:"guest_email"`
	GuestFirstName         string    `json:"guest_first_name" db:"guest_first_name"`
	GuestLastName          string    `json:"guest_last_name" db:"guest_last_name"`
	Source                 string    `json:"source" db:"source"`
	Raw                    Payload   `json:"raw" db:"raw"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// ReservationKey is the natural key of a reservation.
type ReservationKey struct {
	ReservationID string
	PropertyID    string
}

// Key returns the reservation's natural key.
func (r *Reservation) Key() ReservationKey {
	return ReservationKey{ReservationID: r.CloudbedsReservationID, PropertyID: r.CloudbedsPropertyID}
}

// Valid reports whether both halves of the key are present.
func (k ReservationKey) Valid() bool {
	return k.ReservationID != "" && k.PropertyID != ""
}

var inactiveStatuses = map[string]struct{}{
	"canceled":  {},
	"cancelled": {},
	"no_show":   {},
	"noshow":    {},
}

// IsActiveStatus reports whether a reservation status counts as a live stay.
// An empty status is active.
func IsActiveStatus(status string) bool {
	_, inactive := inactiveStatuses[strings.ToLower(strings.TrimSpace(status))]
	return !inactive
}
