package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/service/campaign"
)

// CampaignRepo implements campaign.Repository against PostgreSQL.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func (r *CampaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, subject, html, created_at, sent_at, audience_count
		FROM campaigns
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Subject, &c.HTML, &c.CreatedAt, &c.SentAt, &c.AudienceCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepo) List(ctx context.Context, limit int) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, subject, html, created_at, sent_at, audience_count
		FROM campaigns
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	out := []domain.Campaign{}
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.HTML, &c.CreatedAt, &c.SentAt, &c.AudienceCount); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, name, subject, html, created_at, sent_at, audience_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.Subject, c.HTML, c.CreatedAt, c.SentAt, c.AudienceCount)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepo) MarkSent(ctx context.Context, id string, sentAt time.Time, audienceCount int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE campaigns SET sent_at = $2, audience_count = $3 WHERE id = $1`,
		id, sentAt, audienceCount,
	)
	if err != nil {
		return fmt.Errorf("mark campaign sent: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}
