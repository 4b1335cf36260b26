package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string, redact bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	Configure(level, redact)
	t.Cleanup(func() {
		SetOutput(prev)
		Configure("info", true)
	})
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]string {
	t.Helper()
	var out []map[string]string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]string
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLog_RedactsEmails(t *testing.T) {
	buf := capture(t, "info", true)

	Info("contact derived", "email", "john.doe@example.com", "note", "from ab@x.io")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "contact derived", lines[0]["msg"])
	assert.Equal(t, "jo***@example.com", lines[0]["email"])
	assert.Equal(t, "from ***@x.io", lines[0]["note"])
}

func TestLog_RedactionDisabledKeepsEmails(t *testing.T) {
	buf := capture(t, "info", false)

	Info("contact derived", "email", "john.doe@example.com")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "john.doe@example.com", lines[0]["email"])
}

func TestLog_SecretsAlwaysDropped(t *testing.T) {
	buf := capture(t, "info", false)

	Warn("config", "admin_token", "abc", "api_key", "xyz")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "[redacted]", lines[0]["admin_token"])
	assert.Equal(t, "[redacted]", lines[0]["api_key"])
}

func TestLog_LevelFilter(t *testing.T) {
	buf := capture(t, "warn", true)

	Debug("dropped")
	Info("dropped")
	Error("kept")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactName(t *testing.T) {
	assert.Equal(t, "A*** L***", RedactName("Ana Lima"))
	assert.Equal(t, "É***", RedactName("  Élodie "))
	assert.Equal(t, "", RedactName(""))
}

func TestLog_RedactsGuestNames(t *testing.T) {
	buf := capture(t, "info", true)

	Info("guest recorded", "first_name", "Ana", "last_name", "Lima", "property_id", "P1")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "A***", lines[0]["first_name"])
	assert.Equal(t, "L***", lines[0]["last_name"])
	assert.Equal(t, "P1", lines[0]["property_id"])
}
