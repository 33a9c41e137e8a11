package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // 0-9 shortcuts get their own color
}

// Component is a page of the TUI. Name is its breadcrumb and may change
// with the content shown, e.g. the participant of an open thread.
type Component interface {
	tview.Primitive
	Name() string
	Hints() []MenuHint
}
