package logger

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// guestNameKeys are field keys that carry a guest's name.
var guestNameKeys = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"guest_name": true,
	"name":       true,
}

// RedactEmail keeps the first two characters of the local part and the
// domain: "john.doe@example.com" becomes "jo***@example.com". Local parts of
// two characters or fewer are masked entirely.
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) <= 2 {
		return "***@" + domain
	}
	return local[:2] + "***@" + domain
}

// RedactName keeps only the first letter of each word: "Ana Lima" becomes
// "A*** L***".
func RedactName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		words[i] = string(r) + "***"
	}
	return strings.Join(words, " ")
}

// redactField masks PII in one field value by key, then any email embedded
// in free text.
func redactField(key, val string) string {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "email"):
		return RedactEmail(val)
	case guestNameKeys[k]:
		return RedactName(val)
	}
	return emailPattern.ReplaceAllStringFunc(val, RedactEmail)
}
