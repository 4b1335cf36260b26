package reservation

import "errors"

// Sentinel errors for the reservation service layer.
var (
	ErrNotFound = errors.New("reservation not found")

	// ErrMissingKey marks a payload without a reservation id or property id.
	// Ingest counts these as skipped.
	ErrMissingKey = errors.New("missing reservation/property id")

	// ErrMalformedBatch is returned for a webhook body that is neither an
	// object nor a list.
	ErrMalformedBatch = errors.New("expected JSON object or list of objects")

	ErrInvalidRange   = errors.New("end must be >= start")
	ErrSyncInProgress = errors.New("a reservation sync is already running")
)
