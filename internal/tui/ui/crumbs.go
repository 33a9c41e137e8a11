package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// maxCrumbRunes bounds a single crumb; participant names can be long.
const maxCrumbRunes = 20

// Crumbs is the bottom navigation bar: the profile chip followed by the
// names of the stacked pages, the last one highlighted.
type Crumbs struct {
	*tview.TextView
	theme   *Theme
	profile string
	trail   []string
}

// NewCrumbs creates an empty crumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &Crumbs{TextView: tv, theme: theme}
}

// SetProfile sets the profile shown in front of the trail.
func (c *Crumbs) SetProfile(name string) {
	c.profile = name
	c.render()
}

// Update replaces the trail, bottom page first.
func (c *Crumbs) Update(trail []string) {
	c.trail = append(c.trail[:0], trail...)
	c.render()
}

// Text returns the plain trail as rendered, without color tags.
func (c *Crumbs) Text() string {
	parts := make([]string, 0, len(c.trail)+1)
	if c.profile != "" {
		parts = append(parts, "@"+c.profile)
	}
	for _, name := range c.trail {
		parts = append(parts, shortenCrumb(name))
	}
	return strings.Join(parts, " > ")
}

func (c *Crumbs) render() {
	c.Clear()
	var b strings.Builder
	if c.profile != "" {
		fmt.Fprintf(&b, "[%s::b] @%s [-:-:-] ", ColorName(c.theme.MenuKeyColor), tview.Escape(c.profile))
	}
	for i, name := range c.trail {
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(c.trail)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "[%s:%s:%s] %s [-:-:-]", ColorName(fg), ColorName(bg), attr, tview.Escape(shortenCrumb(name)))
	}
	_, _ = fmt.Fprint(c, b.String())
}

func shortenCrumb(name string) string {
	r := []rune(name)
	if len(r) <= maxCrumbRunes {
		return name
	}
	return string(r[:maxCrumbRunes-1]) + "…"
}
