package cloudbeds

import "errors"

var (
	// ErrMissingCredentials is returned before any network call when the API
	// key or property id is not configured.
	ErrMissingCredentials = errors.New("cloudbeds: missing api key and/or property id")

	// ErrUpstreamUnavailable is returned when every known reservations
	// endpoint failed. It wraps the last failure.
	ErrUpstreamUnavailable = errors.New("cloudbeds: reservations pull failed")
)
