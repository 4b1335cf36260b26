package domain

// List endpoints return at most MaxListLimit rows, DefaultListLimit when the
// caller does not say.
const (
	DefaultListLimit = 200
	MaxListLimit     = 2000
)

// ClampLimit bounds a requested row count to [1, MaxListLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
