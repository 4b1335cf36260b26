package domain

import (
	"strings"
	"time"
)

// Contact is one marketing-addressable person, unique by email.
type Contact struct {
	ID             string     `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	OptedIn        bool       `json:"opted_in" db:"opted_in"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at" db:"unsubscribed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Mailable reports whether the contact may receive marketing mail.
func (c *Contact) Mailable() bool {
	return c.OptedIn && c.UnsubscribedAt == nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
