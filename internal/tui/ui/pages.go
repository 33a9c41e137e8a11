package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages is a navigation stack of registered components on top of
// tview.Pages. Only the top of the stack is visible.
type Pages struct {
	*tview.Pages
	components map[string]Component
	stack      []string
	onChange   func(top Component, trail []string)
}

// NewPages creates an empty stack.
func NewPages() *Pages {
	return &Pages{
		Pages:      tview.NewPages(),
		components: make(map[string]Component),
	}
}

// Add registers c under name, hidden.
func (p *Pages) Add(name string, c Component) {
	p.components[name] = c
	p.AddPage(name, c, true, false)
}

// Component returns the component registered under name.
func (p *Pages) Component(name string) (Component, bool) {
	c, ok := p.components[name]
	return c, ok
}

// SetOnChange sets a callback fired with the top component and the
// breadcrumb trail whenever the stack changes or Refresh is called.
func (p *Pages) SetOnChange(fn func(top Component, trail []string)) {
	p.onChange = fn
}

// Push shows name on top of the stack. Pushing the current top is a no-op.
func (p *Pages) Push(name string) {
	if p.Current() == name {
		return
	}
	if top := p.Current(); top != "" {
		p.HidePage(top)
	}
	p.stack = append(p.stack, name)
	p.show(name)
}

// Pop removes the top page and returns its name. The bottom page stays.
func (p *Pages) Pop() string {
	if len(p.stack) <= 1 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top)
	p.stack = p.stack[:len(p.stack)-1]
	p.show(p.Current())
	return top
}

// PopTo pops until name is on top. Unknown names leave the stack alone.
func (p *Pages) PopTo(name string) {
	if !p.Contains(name) {
		return
	}
	for p.Current() != name {
		p.Pop()
	}
}

// Reset replaces the whole stack with name.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.show(name)
}

// Current returns the name of the top page, or "".
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Contains reports whether name is somewhere on the stack.
func (p *Pages) Contains(name string) bool {
	return slices.Contains(p.stack, name)
}

// Depth returns the stack size.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Trail returns the display names of the stacked components, bottom first.
func (p *Pages) Trail() []string {
	trail := make([]string, 0, len(p.stack))
	for _, n := range p.stack {
		if c, ok := p.components[n]; ok {
			trail = append(trail, c.Name())
		} else {
			trail = append(trail, n)
		}
	}
	return trail
}

// Refresh re-fires the change callback, e.g. after a component renamed itself.
func (p *Pages) Refresh() {
	if p.onChange == nil || len(p.stack) == 0 {
		return
	}
	p.onChange(p.components[p.Current()], p.Trail())
}

func (p *Pages) show(name string) {
	p.ShowPage(name)
	p.SendToFront(name)
	p.Refresh()
}
