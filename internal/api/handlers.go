package api

import (
	"net/http"

	"github.com/ignite/guest-marketing/internal/config"
	"github.com/ignite/guest-marketing/internal/pkg/httputil"
	"github.com/ignite/guest-marketing/internal/service/audience"
	"github.com/ignite/guest-marketing/internal/service/campaign"
	"github.com/ignite/guest-marketing/internal/service/contact"
	"github.com/ignite/guest-marketing/internal/service/reservation"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	cfg          *config.Config
	reservations *reservation.Service
	contacts     *contact.Service
	audience     *audience.Service
	campaigns    *campaign.Service
}

// NewHandlers creates handlers over the wired services.
func NewHandlers(
	cfg *config.Config,
	reservations *reservation.Service,
	contacts *contact.Service,
	audience *audience.Service,
	campaigns *campaign.Service,
) *Handlers {
	return &Handlers{
		cfg:          cfg,
		reservations: reservations,
		contacts:     contacts,
		audience:     audience,
		campaigns:    campaigns,
	}
}

// ConfigView is the non-secret summary served by GET /config.
type ConfigView struct {
	CloudbedsBaseURL       string `json:"cloudbeds_base_url"`
	CloudbedsPropertyIDSet bool   `json:"cloudbeds_property_id_set"`
	CloudbedsAPIKeySet     bool   `json:"cloudbeds_api_key_set"`
	DatabaseDriver         string `json:"database_driver"`
	RedisConfigured        bool   `json:"redis_configured"`
	AdminTokenRequired     bool   `json:"admin_token_required"`
}

// GetConfig reports which settings are present without revealing them.
//
//	GET /config
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, ConfigView{
		CloudbedsBaseURL:       h.cfg.Cloudbeds.BaseURL,
		CloudbedsPropertyIDSet: h.cfg.Cloudbeds.PropertyID != "",
		CloudbedsAPIKeySet:     h.cfg.Cloudbeds.APIKey != "",
		DatabaseDriver:         h.cfg.Database.Driver(),
		RedisConfigured:        h.cfg.Redis.URL != "",
		AdminTokenRequired:     h.cfg.Auth.AdminToken != "",
	})
}
