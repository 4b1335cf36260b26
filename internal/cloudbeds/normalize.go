package cloudbeds

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ignite/guest-marketing/internal/domain"
)

// NormalizedReservation is the canonical view of one upstream payload.
// PropertyID is never read from the payload here; the ingestor decides it.
type NormalizedReservation struct {
	ReservationID  string         `json:"cloudbeds_reservation_id"`
	PropertyID     string         `json:"cloudbeds_property_id"`
	Status         string         `json:"status"`
	CheckIn        *domain.Date   `json:"check_in"`
	CheckOut       *domain.Date   `json:"check_out"`
	GuestEmail     string         `json:"guest_email"`
	GuestFirstName string         `json:"guest_first_name"`
	GuestLastName  string         `json:"guest_last_name"`
	Source         string         `json:"source"`
	Raw            domain.Payload `json:"raw"`
}

// field names the candidate keys for one canonical field, highest priority
// first.
type field []string

var (
	reservationIDKeys = field{"reservationID", "reservationId", "reservation_id", "id"}
	statusKeys        = field{"status", "reservationStatus"}
	checkInKeys       = field{"checkin", "checkIn", "arrivalDate"}
	checkOutKeys      = field{"checkout", "checkOut", "departureDate"}
	sourceKeys        = field{"source", "channel", "origin"}
	propertyIDKeys    = field{"propertyID", "propertyId", "property_id"}

	guestEmailKeys     = field{"email", "emailAddress"}
	guestFirstNameKeys = field{"firstName", "first_name"}
	guestLastNameKeys  = field{"lastName", "last_name"}
)

// lookup returns the first candidate value that is present and not blank.
func (f field) lookup(p domain.Payload) any {
	for _, k := range f {
		if v, ok := p[k]; ok && !isBlank(v) {
			return v
		}
	}
	return nil
}

func (f field) str(p domain.Payload) string {
	return stringify(f.lookup(p))
}

// guestVariant resolves the guest object from one payload shape.
type guestVariant func(domain.Payload) (domain.Payload, bool)

var guestVariants = []guestVariant{nestedGuest, firstListedGuest}

// nestedGuest handles {"guest": {...}} and {"primaryGuest": {...}}.
func nestedGuest(p domain.Payload) (domain.Payload, bool) {
	return asObject(field{"guest", "primaryGuest"}.lookup(p))
}

// firstListedGuest handles {"guests": [{...}, ...]}.
func firstListedGuest(p domain.Payload) (domain.Payload, bool) {
	guests, ok := p["guests"].([]any)
	if !ok || len(guests) == 0 {
		return nil, false
	}
	return asObject(guests[0])
}

// Normalize extracts the canonical reservation fields from a payload. It
// never fails: unknown or malformed values become empty strings or nil dates,
// and the whole payload is kept in Raw.
func Normalize(p domain.Payload) NormalizedReservation {
	n := NormalizedReservation{
		ReservationID: reservationIDKeys.str(p),
		Status:        strings.TrimSpace(statusKeys.str(p)),
		CheckIn:       parseDate(checkInKeys.lookup(p)),
		CheckOut:      parseDate(checkOutKeys.lookup(p)),
		Source:        sourceKeys.str(p),
		Raw:           p,
	}
	for _, variant := range guestVariants {
		g, ok := variant(p)
		if !ok {
			continue
		}
		n.GuestEmail = guestEmailKeys.str(g)
		n.GuestFirstName = guestFirstNameKeys.str(g)
		n.GuestLastName = guestLastNameKeys.str(g)
		break
	}
	return n
}

// PropertyIDOf returns the property id a payload carries, if any.
func PropertyIDOf(p domain.Payload) string {
	return propertyIDKeys.str(p)
}

// parseDate reads the first ten characters of a string as YYYY-MM-DD.
// Anything else is nil.
func parseDate(v any) *domain.Date {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case domain.Date:
		return &t
	default:
		return nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
