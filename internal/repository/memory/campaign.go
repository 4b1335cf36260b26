package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/service/campaign"
)

// CampaignRepo implements campaign.Repository in memory.
type CampaignRepo struct {
	mu   sync.RWMutex
	rows map[string]domain.Campaign // keyed by id
}

// NewCampaignRepo creates an empty campaign store.
func NewCampaignRepo() *CampaignRepo {
	return &CampaignRepo{rows: make(map[string]domain.Campaign)}
}

func (r *CampaignRepo) Get(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, campaign.ErrNotFound
	}
	return &c, nil
}

func (r *CampaignRepo) List(_ context.Context, limit int) ([]domain.Campaign, error) {
	r.mu.RLock()
	out := make([]domain.Campaign, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CampaignRepo) Create(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *CampaignRepo) MarkSent(_ context.Context, id string, sentAt time.Time, audienceCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return campaign.ErrNotFound
	}
	c.SentAt = &sentAt
	c.AudienceCount = audienceCount
	r.rows[id] = c
	return nil
}
