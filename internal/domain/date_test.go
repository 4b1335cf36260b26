package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.May, 1), d)
	assert.Equal(t, "2024-05-01", d.String())

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	in := NewDate(2024, time.June, 3)
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-03"`, string(b))

	var out Date
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-05-02T00:00:00Z")))
	assert.Equal(t, "2024-05-02", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateOf_IgnoresClock(t *testing.T) {
	ts := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, time.May, 1), DateOf(ts))
	assert.Equal(t, NewDate(2024, time.May, 2), DateOf(ts).AddDays(1))
}
