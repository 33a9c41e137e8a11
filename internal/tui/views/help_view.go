package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/p2pm/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := ui.ColorName(hv.theme.MenuKeyColor)
	key := func(k string) string { return "[" + kc + "]" + k + "[-:-:-]" }

	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"Global Keys", [][2]string{
			{":", "Command mode"},
			{"Esc", "Cancel / Go back"},
			{"?", "Help"},
			{"p", "My profile and contact QR"},
			{"q", "Quit"},
			{"Ctrl-C", "Quit immediately"},
		}},
		{"Conversation List", [][2]string{
			{"Enter", "Open conversation (marks it read)"},
			{"1-9", "Open the Nth conversation"},
			{"n", "Start a conversation"},
			{"/", "Filter by participant name"},
			{"0", "Clear filter"},
			{"s", "Search messages"},
			{"j/k", "Move down / up"},
		}},
		{"Message Thread", [][2]string{
			{"i", "Focus composer"},
			{"a", "Attach a file to the next message"},
			{"x", "Drop the staged attachment"},
			{"s", "Search this conversation"},
			{"d", "Conversation details"},
			{"Enter", "Send (in composer)"},
		}},
		{"Search", [][2]string{
			{"Enter", "Run query / open result"},
			{"Tab", "Move to results"},
			{"Ctrl-A", "Toggle this conversation / all"},
		}},
		{"Commands (: mode)", [][2]string{
			{":search <query>", "Search messages"},
			{":chat <name>", "Open conversation by participant name"},
			{":new <name>", "Start a conversation"},
			{":attach <path>", "Attach a file in the open conversation"},
			{":profile", "Show my profile"},
			{":reset", "Forget identity and restore the demo chats"},
			{":help / :h", "Show this help"},
			{"Up/Down", "Pick a command or participant completion"},
			{"Ctrl-P/Ctrl-N", "Previous / next prompt entry"},
			{":quit / :q", "Quit application"},
		}},
	}

	var b strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", sec.title)
		for _, r := range sec.rows {
			fmt.Fprintf(&b, "  %s%s %s\n", key(tview.Escape(r[0])), strings.Repeat(" ", max(1, 18-len(r[0]))), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
