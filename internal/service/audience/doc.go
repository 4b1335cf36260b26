// Package audience resolves date-based guest segments (in_house,
// future_arrivals, departed) into sorted, de-duplicated email lists,
// optionally restricted to contacts who have opted in.
//
// It is read-only over reservations and contacts and scans every
// reservation per query.
package audience
