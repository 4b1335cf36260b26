// Package contact owns the marketing contact list: one row per email, with
// opt-in and unsubscribe state.
//
// Contacts are created lazily, either by reservation ingestion (RecordGuest)
// or by an explicit OptIn/Unsubscribe call. Ingestion never touches consent
// state; only OptIn and Unsubscribe do.
package contact
