package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays details about a conversation's participant.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(c chat.Conversation) {
	ci.Clear()

	fg := ui.ColorName(ci.theme.FgColor)
	ct := ui.ColorName(ci.theme.CounterColor)

	presence := "Offline"
	if c.Participant.Online {
		presence = "Online"
	}

	var files int
	for _, m := range c.Messages {
		if m.Attachment != nil {
			files++
		}
	}

	lastActive := formatTimestamp(c.LastMessageTimestamp, time.Now())
	if lastActive == "" {
		lastActive = "-"
	}

	text := fmt.Sprintf(
		"\n [%s::b]Name:[-:-:-]         [%s]%s[-]\n"+
			" [%s::b]Job:[-:-:-]          [%s]%s[-]\n"+
			" [%s::b]Presence:[-:-:-]     [%s]%s[-]\n"+
			" [%s::b]User ID:[-:-:-]      [%s]%s[-]\n"+
			" [%s::b]Conversation:[-:-:-] [%s]%s[-]\n"+
			" [%s::b]Messages:[-:-:-]     [%s]%d (%d files)[-]\n"+
			" [%s::b]Unread:[-:-:-]       [%s]%d[-]\n"+
			" [%s::b]Last Active:[-:-:-]  [%s]%s[-]\n"+
			" [%s::b]Last Message:[-:-:-] [%s]%s[-]\n"+
			" [%s::b]Avatar:[-:-:-]       [%s]%s[-]",
		fg, ct, display(c.Participant.Name),
		fg, ct, display(c.Participant.Job),
		fg, ct, presence,
		fg, ct, display(c.Participant.ID),
		fg, ct, display(c.ID),
		fg, ct, len(c.Messages), files,
		fg, ct, c.UnreadCount,
		fg, ct, lastActive,
		fg, ct, display(c.Preview()),
		fg, ct, display(c.Participant.Avatar),
	)

	_, _ = fmt.Fprint(ci, text)
	ci.SetTitle(fmt.Sprintf(" %s Details ", display(c.Participant.Name)))
}
