package api

import (
	"net/http"

	"github.com/ignite/guest-marketing/internal/pkg/httputil"
)

// SyncReservations pulls [start, end] from Cloudbeds and upserts the result.
//
//	POST /sync/cloudbeds/reservations?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) SyncReservations(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start", true)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	end, err := parseDateParam(r, "end", true)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}

	res, err := h.reservations.Pull(r.Context(), *start, *end)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, res)
}

// WebhookResult is the webhook ingest summary.
type WebhookResult struct {
	Received int `json:"received"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// CloudbedsWebhook ingests one reservation payload or a list of them.
//
//	POST /webhooks/cloudbeds
func (h *Handlers) CloudbedsWebhook(w http.ResponseWriter, r *http.Request) {
	body, ok := httputil.DecodeAny(w, r)
	if !ok {
		return
	}

	res, err := h.reservations.IngestWebhook(r.Context(), body, h.cfg.Cloudbeds.PropertyID)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, WebhookResult{Received: res.Pulled, Upserted: res.Upserted, Skipped: res.Skipped})
}

// ListReservations returns the most recently updated reservations.
//
//	GET /reservations?limit=200
func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	rows, err := h.reservations.List(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, rows)
}
