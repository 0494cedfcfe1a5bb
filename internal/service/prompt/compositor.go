package prompt

import (
	"strings"

	"promptdeck/internal/domain/models"
)

// Compositor turns a resolved fragment set into a single prompt string.
// It is pure: no clock, no locale, no I/O. Identical input yields
// byte-identical output.
type Compositor struct {
	layout *Layout
}

// NewCompositor creates a compositor rendering with the given layout
func NewCompositor(layout *Layout) *Compositor {
	return &Compositor{layout: layout}
}

// Compose renders the present fragments as titled sections in fixed
// role, style, context, mode order, joined by the layout separator.
// Absent kinds contribute nothing: no empty section, no stray separator.
// ok is false when every fragment is absent, signaling that no custom
// prompt applies.
func (c *Compositor) Compose(fragments map[models.ComponentKind]string) (text string, ok bool) {
	var sections []string
	for _, section := range c.layout.Sections {
		content, present := fragments[section.Kind]
		if !present {
			continue
		}
		sections = append(sections, section.Title+"\n"+content)
	}

	if len(sections) == 0 {
		return "", false
	}
	return strings.Join(sections, c.layout.Separator), true
}
