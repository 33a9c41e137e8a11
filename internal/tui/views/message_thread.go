package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays messages and a composer for a single conversation.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	conv     chat.Conversation
	pending  *chat.Attachment
	onSend   func(text string, attachment *chat.Attachment)
	now      func() time.Time
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0).
		SetPlaceholder("Type a message")
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
		now:      time.Now,
	}
	mt.renderComposerTitle()

	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || mt.onSend == nil {
			return
		}
		text := strings.TrimSpace(composer.GetText())
		if text == "" && mt.pending == nil {
			return
		}
		mt.onSend(text, mt.pending)
		composer.SetText("")
		mt.SetPendingAttachment(nil)
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.conv.Participant.Name != "" {
		return mt.conv.Participant.Name
	}
	return "Messages"
}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "a", Description: "Attach"},
		{Key: "s", Description: "Search here"},
		{Key: "d", Description: "Details"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// ConversationID returns the id of the displayed conversation.
func (mt *MessageThread) ConversationID() string {
	return mt.conv.ID
}

// SetOnSend sets the callback when the composer is submitted.
func (mt *MessageThread) SetOnSend(fn func(text string, attachment *chat.Attachment)) {
	mt.onSend = fn
}

// SetPendingAttachment stages a file to go out with the next message.
func (mt *MessageThread) SetPendingAttachment(a *chat.Attachment) {
	mt.pending = a
	mt.renderComposerTitle()
}

// PendingAttachment returns the staged attachment, if any.
func (mt *MessageThread) PendingAttachment() *chat.Attachment {
	return mt.pending
}

func (mt *MessageThread) renderComposerTitle() {
	if mt.pending == nil {
		mt.composer.SetTitle(" Compose (i to focus, a to attach) ")
		return
	}
	mt.composer.SetTitle(fmt.Sprintf(" 📎 %s (%s), Enter to send ", tview.Escape(mt.pending.Name), tview.Escape(mt.pending.Label())))
}

// Update renders the conversation, oldest message first.
func (mt *MessageThread) Update(conv chat.Conversation) {
	if conv.ID != mt.conv.ID {
		mt.SetPendingAttachment(nil)
	}
	mt.conv = conv
	mt.messages.Clear()

	status := "offline"
	if conv.Participant.Online {
		status = fmt.Sprintf("[%s]online[-]", ui.ColorName(mt.theme.OnlineColor))
	}
	mt.messages.SetTitle(fmt.Sprintf(" %s · %s · %s ", display(conv.Participant.Name), display(conv.Participant.Job), status))

	if len(conv.Messages) == 0 {
		_, _ = fmt.Fprint(mt.messages, "\n  [::d]No messages yet. Press i to say hello.[-:-:-]")
		return
	}

	now := mt.now()
	own := ui.ColorName(mt.theme.OwnMessageColor)
	for _, m := range conv.Messages {
		ts := formatTimestamp(m.Timestamp, now)
		var header string
		if conv.Incoming(m) {
			header = fmt.Sprintf("[::b]%s[-:-:-] [::d]%s[-:-:-]", display(conv.Participant.Name), ts)
		} else {
			header = fmt.Sprintf("[%s::b]You[-:-:-] [::d]%s[-:-:-] %s", own, ts, statusTick(m.Status, mt.theme))
		}
		_, _ = fmt.Fprintln(mt.messages, header)
		if m.Text != "" {
			_, _ = fmt.Fprintln(mt.messages, display(m.Text))
		}
		if m.Attachment != nil {
			_, _ = fmt.Fprintln(mt.messages, attachmentLine(m.Attachment, mt.theme))
		}
		_, _ = fmt.Fprintln(mt.messages)
	}

	mt.messages.ScrollToEnd()
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
