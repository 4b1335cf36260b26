// Package reservation ingests Cloudbeds reservations, from a scheduled or
// on-demand API pull or from a webhook, into the reservation store.
//
// Every payload is normalized, upserted by its natural key (reservation id,
// property id) and, when it carries a guest email, recorded as a contact.
// Payloads without a complete key are counted as skipped, never fatal.
// Ingestion is idempotent per key: re-pulling a date range is safe.
package reservation
