package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound        = errors.New("campaign not found")
	ErrMissingField    = errors.New("name, subject and html are required")
	ErrInvalidTemplate = errors.New("invalid template")
)
