// Package campaign implements campaign creation, personalization preview and
// the send stub.
//
// Campaign subject and HTML are Liquid templates ({{ first_name }},
// {{ guest_name }}, ...). Sending does not deliver mail: it resolves the
// audience, stamps sent_at and audience_count, and returns the recipients.
//
// Repository implementations live in repository/postgres/ and repository/memory/.
package campaign
