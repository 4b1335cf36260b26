// Package cloudbeds talks to the Cloudbeds property-management API and turns
// its loosely-shaped reservation payloads into canonical records.
package cloudbeds

import "github.com/ignite/guest-marketing/internal/domain"

// CoerceReservations flattens a reservations response into a list of
// payload objects. Observed shapes, tried in order:
//
//	[...]
//	{"reservations": [...]}
//	{"data": [...]}
//	{"data": {"reservations": [...]}}
//
// Elements that are not objects are dropped. Anything else yields an empty
// list rather than an error.
func CoerceReservations(data any) []domain.Payload {
	if list, ok := data.([]any); ok {
		return objectsOf(list)
	}
	obj, ok := asObject(data)
	if !ok {
		return []domain.Payload{}
	}

	if list, ok := obj["reservations"].([]any); ok {
		return objectsOf(list)
	}

	switch d := obj["data"].(type) {
	case []any:
		return objectsOf(d)
	case map[string]any:
		if list, ok := d["reservations"].([]any); ok {
			return objectsOf(list)
		}
	}
	return []domain.Payload{}
}

func objectsOf(list []any) []domain.Payload {
	out := make([]domain.Payload, 0, len(list))
	for _, v := range list {
		if obj, ok := asObject(v); ok {
			out = append(out, obj)
		}
	}
	return out
}

func asObject(v any) (domain.Payload, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}
