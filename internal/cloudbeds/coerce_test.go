package cloudbeds

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCoerceReservations_RecognizedShapes(t *testing.T) {
	list := `[{"reservationID":"R1"},{"reservationID":"R2"}]`
	shapes := map[string]string{
		"bare list":               list,
		"reservations field":      `{"reservations":` + list + `}`,
		"data list":               `{"data":` + list + `}`,
		"data.reservations field": `{"success":true,"data":{"reservations":` + list + `}}`,
	}

	want := CoerceReservations(decode(t, list))
	require.Len(t, want, 2)

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			got := CoerceReservations(decode(t, body))
			assert.Equal(t, want, got)
		})
	}
}

func TestCoerceReservations_DropsNonObjects(t *testing.T) {
	got := CoerceReservations(decode(t, `{"data":[{"id":"A"}, 3, "x", null, [1], {"id":"B"}]}`))
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0]["id"])
	assert.Equal(t, "B", got[1]["id"])
}

func TestCoerceReservations_UnrecognizedShapes(t *testing.T) {
	for _, body := range []string{
		`{"foo": 1}`,
		`{"data": {"rows": []}}`,
		`{"reservations": "nope"}`,
		`"text"`,
		`42`,
		`null`,
	} {
		got := CoerceReservations(decode(t, body))
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
	}
}

func TestCoerceReservations_ReservationsBeatsData(t *testing.T) {
	got := CoerceReservations(decode(t, `{"reservations":[{"id":"top"}],"data":[{"id":"nested"}]}`))
	require.Len(t, got, 1)
	assert.Equal(t, "top", got[0]["id"])
}
