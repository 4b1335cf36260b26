package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/guest-marketing/internal/pkg/httputil"
	"github.com/ignite/guest-marketing/internal/service/campaign"
)

// CreateCampaign stores a draft campaign.
//
//	POST /campaigns
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaign.CreateInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	c, err := h.campaigns.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, c)
}

// ListCampaigns returns the newest campaigns.
//
//	GET /campaigns?limit=200
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	rows, err := h.campaigns.List(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, rows)
}

// SendCampaign runs the send stub for today's audience.
//
//	POST /campaigns/{id}/send?segment=in_house&opted_in_only=true
func (h *Handlers) SendCampaign(w http.ResponseWriter, r *http.Request) {
	segment, err := parseSegmentParam(r)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	optedInOnly, err := parseBoolParam(r, "opted_in_only", true)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}

	res, err := h.campaigns.Send(r.Context(), chi.URLParam(r, "id"), segment, optedInOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, res)
}

// PreviewCampaign renders a campaign for one recipient.
//
//	GET /campaigns/{id}/preview?email=guest@example.com
func (h *Handlers) PreviewCampaign(w http.ResponseWriter, r *http.Request) {
	p, err := h.campaigns.Preview(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("email"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, p)
}
