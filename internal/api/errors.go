package api

import (
	"errors"
	"net/http"

	"github.com/ignite/guest-marketing/internal/cloudbeds"
	"github.com/ignite/guest-marketing/internal/pkg/httputil"
	"github.com/ignite/guest-marketing/internal/service/campaign"
	"github.com/ignite/guest-marketing/internal/service/contact"
	"github.com/ignite/guest-marketing/internal/service/reservation"
)

// respondError maps service errors to HTTP responses. Anything unrecognized
// is logged and answered with a generic 500 so storage details never reach
// the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cloudbeds.ErrUpstreamUnavailable):
		httputil.ErrorCode(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
	case errors.Is(err, cloudbeds.ErrMissingCredentials):
		httputil.ErrorCode(w, http.StatusBadRequest, "missing_credentials", err.Error())
	case errors.Is(err, reservation.ErrSyncInProgress):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, reservation.ErrInvalidRange),
		errors.Is(err, reservation.ErrMalformedBatch),
		errors.Is(err, reservation.ErrMissingKey),
		errors.Is(err, contact.ErrInvalidEmail),
		errors.Is(err, campaign.ErrMissingField),
		errors.Is(err, campaign.ErrInvalidTemplate):
		httputil.Unprocessable(w, err.Error())
	case errors.Is(err, campaign.ErrNotFound):
		httputil.NotFound(w, "Campaign not found")
	case errors.Is(err, contact.ErrNotFound), errors.Is(err, reservation.ErrNotFound):
		httputil.NotFound(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
