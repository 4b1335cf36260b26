package api

import (
	"net/http"

	"github.com/ignite/guest-marketing/internal/pkg/httputil"
)

// ContactRequest is the body of opt-in and unsubscribe calls.
type ContactRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OptIn marks a contact as opted in.
//
//	POST /contacts/optin
func (h *Handlers) OptIn(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	c, err := h.contacts.OptIn(r.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, c)
}

// Unsubscribe opts a contact out. Not admin-gated.
//
//	POST /contacts/unsubscribe
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	c, err := h.contacts.Unsubscribe(r.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, c)
}

// ListContacts returns the most recently updated contacts.
//
//	GET /contacts?limit=200
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	rows, err := h.contacts.List(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, rows)
}

// AudienceEmails resolves a segment to an email list.
//
//	GET /audience/emails?segment=in_house&as_of=YYYY-MM-DD&opted_in_only=false
func (h *Handlers) AudienceEmails(w http.ResponseWriter, r *http.Request) {
	segment, err := parseSegmentParam(r)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	asOf, err := parseDateParam(r, "as_of", false)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}
	optedInOnly, err := parseBoolParam(r, "opted_in_only", false)
	if err != nil {
		httputil.Unprocessable(w, err.Error())
		return
	}

	aud, err := h.audience.Emails(r.Context(), segment, asOf, optedInOnly)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, aud)
}
