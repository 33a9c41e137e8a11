package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode selects what the prompt input is used for.
type PromptMode int

const (
	PromptCommand PromptMode = iota
	PromptFilter
	PromptAttach
	PromptContact
)

type promptSpec struct {
	label       string
	title       string
	placeholder string
}

var promptSpecs = map[PromptMode]promptSpec{
	PromptCommand: {":", " Command ", "chat <name>, new <name>, search <text>, profile, quit"},
	PromptFilter:  {"/", " Filter by name ", ""},
	PromptAttach:  {"📎 ", " Attach file ", "~/Documents/report.pdf"},
	PromptContact: {"+ ", " New contact ", "Full name"},
}

const maxPromptHistory = 50

// Prompt is the one-line input shown above the pages. Each mode keeps its
// own history, recalled with Ctrl-P and Ctrl-N.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	mode     PromptMode
	history  map[PromptMode][]string
	cursor   int
	onSubmit func(mode PromptMode, text string)
	onChange func(mode PromptMode, text string)
	onCancel func()
	complete func(mode PromptMode, text string) []string
}

// NewPrompt creates a hidden prompt.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetPlaceholderTextColor(theme.TickColor)

	p := &Prompt{
		InputField: input,
		theme:      theme,
		history:    make(map[PromptMode][]string),
	}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := strings.TrimSpace(p.GetText())
			p.SetText("")
			if text == "" {
				if p.onCancel != nil {
					p.onCancel()
				}
				return
			}
			p.remember(text)
			if p.onSubmit != nil {
				p.onSubmit(p.mode, text)
			}
		case tcell.KeyEscape:
			p.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})
	input.SetChangedFunc(func(text string) {
		if p.onChange != nil {
			p.onChange(p.mode, text)
		}
	})
	input.SetAutocompleteFunc(func(text string) []string {
		if p.complete == nil || text == "" {
			return nil
		}
		return p.complete(p.mode, text)
	})
	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlP:
			p.recall(-1)
			return nil
		case tcell.KeyCtrlN:
			p.recall(1)
			return nil
		}
		return event
	})

	return p
}

// SetOnSubmit sets the callback for non-blank input confirmed with Enter.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) { p.onSubmit = fn }

// SetOnChange sets the callback fired on every edit.
func (p *Prompt) SetOnChange(fn func(mode PromptMode, text string)) { p.onChange = fn }

// SetOnCancel sets the callback for Esc or an empty Enter.
func (p *Prompt) SetOnCancel(fn func()) { p.onCancel = fn }

// SetCompleter sets the source of autocomplete entries.
func (p *Prompt) SetCompleter(fn func(mode PromptMode, text string) []string) { p.complete = fn }

// Activate clears the input and switches to mode.
func (p *Prompt) Activate(mode PromptMode) {
	p.mode = mode
	p.cursor = len(p.history[mode])
	spec := promptSpecs[mode]
	p.SetLabel(spec.label)
	p.SetTitle(spec.title)
	p.SetPlaceholder(spec.placeholder)
	p.SetText("")
}

// Mode returns the current mode.
func (p *Prompt) Mode() PromptMode {
	return p.mode
}

// History returns the remembered entries of mode, oldest first.
func (p *Prompt) History(mode PromptMode) []string {
	return append([]string(nil), p.history[mode]...)
}

func (p *Prompt) remember(text string) {
	h := p.history[p.mode]
	if n := len(h); n > 0 && h[n-1] == text {
		return
	}
	h = append(h, text)
	if len(h) > maxPromptHistory {
		h = h[len(h)-maxPromptHistory:]
	}
	p.history[p.mode] = h
}

func (p *Prompt) recall(step int) {
	h := p.history[p.mode]
	if len(h) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+step, 0), len(h))
	if p.cursor == len(h) {
		p.SetText("")
		return
	}
	p.SetText(h[p.cursor])
}
