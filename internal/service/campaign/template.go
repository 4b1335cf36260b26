package campaign

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/guest-marketing/internal/domain"
)

const (
	defaultGuestName = "Valued Guest"
	defaultFirstName = "Guest"
)

// Renderer parses and renders campaign templates with Liquid. Parsed
// templates are cached by key; campaign content never changes after
// creation, so the campaign id plus field name is a stable key.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer creates a renderer with a fresh Liquid engine.
func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

// Validate reports whether src parses as a Liquid template.
func (r *Renderer) Validate(src string) error {
	if _, err := r.engine.ParseString(src); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return nil
}

// Render renders src with the given bindings. An empty cacheKey disables
// caching.
func (r *Renderer) Render(cacheKey, src string, bindings map[string]any) (string, error) {
	var tpl *liquid.Template
	if cached, ok := r.cache.Load(cacheKey); ok && cacheKey != "" {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := r.engine.ParseString(src)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		tpl = parsed
		if cacheKey != "" {
			r.cache.Store(cacheKey, tpl)
		}
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render: %v", err)
	}
	return out, nil
}

// Bindings returns the personalization variables for a recipient. c may be
// nil, in which case only email is known.
func Bindings(email string, c *domain.Contact) map[string]any {
	var first, last string
	if c != nil {
		first, last = c.FirstName, c.LastName
		email = c.Email
	}

	guestName := strings.TrimSpace(first + " " + last)
	if guestName == "" {
		guestName = defaultGuestName
	}
	if first == "" {
		first = defaultFirstName
	}

	return map[string]any{
		"email":      email,
		"first_name": first,
		"last_name":  last,
		"guest_name": guestName,
	}
}
