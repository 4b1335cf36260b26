package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/service/contact"
)

// ContactRepo implements contact.Repository against PostgreSQL.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, opted_in, unsubscribed_at, created_at, updated_at
		FROM contacts
		WHERE email = $1
	`, email).Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.OptedIn, &c.UnsubscribedAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// Save upserts on email. created_at and id are kept from the stored row.
func (r *ContactRepo) Save(ctx context.Context, c *domain.Contact) error {
	if c.Email == "" {
		return contact.ErrInvalidEmail
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contacts (id, email, first_name, last_name, opted_in, unsubscribed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			opted_in = EXCLUDED.opted_in,
			unsubscribed_at = EXCLUDED.unsubscribed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`, c.ID, c.Email, c.FirstName, c.LastName, c.OptedIn, c.UnsubscribedAt, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

func (r *ContactRepo) List(ctx context.Context, limit int) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, first_name, last_name, opted_in, unsubscribed_at, created_at, updated_at
		FROM contacts
		ORDER BY updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.OptedIn, &c.UnsubscribedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepo) OptedInEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email FROM contacts WHERE opted_in = true AND unsubscribed_at IS NULL ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("opted-in emails: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}
