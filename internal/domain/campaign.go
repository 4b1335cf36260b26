package domain

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "draft"
	CampaignSent  CampaignStatus = "sent"
)

// Campaign is an email campaign. Sending is a stub that only records when it
// ran and how many recipients it selected.
type Campaign struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Subject       string     `json:"subject" db:"subject"`
	HTML          string     `json:"html" db:"html"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	SentAt        *time.Time `json:"sent_at" db:"sent_at"`
	AudienceCount int        `json:"audience_count" db:"audience_count"`
}

// Status derives the campaign status from its send stamp.
func (c *Campaign) Status() CampaignStatus {
	if c.SentAt != nil {
		return CampaignSent
	}
	return CampaignDraft
}
