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

// SearchView searches message text and attachment names, either across
// every conversation or inside one. Results are grouped per conversation.
type SearchView struct {
	*tview.Flex
	theme   *ui.Theme
	input   *tview.InputField
	results *tview.Table
	onQuery func(query, conversationID string)
	now     func() time.Time

	scopeID   string
	scopeName string
	scoped    bool
	query     string
	// rows maps a table row to its result; group headers map to -1.
	rows []int
	data []chat.SearchResult
}

// NewSearchView creates the search page.
func NewSearchView(theme *ui.Theme) *SearchView {
	input := tview.NewInputField().
		SetLabel(" Search: ").
		SetFieldWidth(0)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	results := tview.NewTable().SetSelectable(true, false)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetTitleColor(theme.TitleColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	sv := &SearchView{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(input, 1, 0, true).
			AddItem(results, 0, 1, false),
		theme:   theme,
		input:   input,
		results: results,
		now:     time.Now,
	}

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			sv.submit()
		}
	})
	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlA {
			sv.ToggleScope()
			return nil
		}
		return event
	})
	sv.renderTitle()
	return sv
}

// Name implements Component.
func (sv *SearchView) Name() string {
	if sv.scoped {
		return "Search " + sv.scopeName
	}
	return "Search"
}

// Hints implements Component.
func (sv *SearchView) Hints() []ui.MenuHint {
	hints := []ui.MenuHint{
		{Key: "Enter", Description: "Search/Open"},
		{Key: "Tab", Description: "Results"},
	}
	if sv.scopeID != "" {
		hints = append(hints, ui.MenuHint{Key: "Ctrl-A", Description: "All chats"})
	}
	return append(hints, ui.MenuHint{Key: "Esc", Description: "Back"})
}

// SetOnQuery sets the callback for a submitted query. conversationID is ""
// when searching everywhere.
func (sv *SearchView) SetOnQuery(fn func(query, conversationID string)) {
	sv.onQuery = fn
}

// SetScope limits searches to one conversation. An empty id searches all.
func (sv *SearchView) SetScope(conversationID, participantName string) {
	sv.scopeID = conversationID
	sv.scopeName = participantName
	sv.scoped = conversationID != ""
	sv.renderTitle()
}

// ToggleScope switches between the scoped conversation and all of them,
// repeating the last query.
func (sv *SearchView) ToggleScope() {
	if sv.scopeID == "" {
		return
	}
	sv.scoped = !sv.scoped
	sv.renderTitle()
	if sv.query != "" {
		sv.submit()
	}
}

// Scope returns the conversation searched, or "" for all.
func (sv *SearchView) Scope() string {
	if sv.scoped {
		return sv.scopeID
	}
	return ""
}

// SetQuery fills the input, e.g. from the :search command.
func (sv *SearchView) SetQuery(q string) {
	sv.input.SetText(q)
}

func (sv *SearchView) submit() {
	q := strings.TrimSpace(sv.input.GetText())
	if q == "" || sv.onQuery == nil {
		return
	}
	sv.query = q
	sv.onQuery(q, sv.Scope())
}

// Update shows results. They arrive newest first; groups keep the order in
// which each conversation first appears.
func (sv *SearchView) Update(results []chat.SearchResult) {
	sv.data = results
	sv.rows = sv.rows[:0]
	sv.results.Clear()

	var order []string
	groups := make(map[string][]int)
	for i, r := range results {
		if _, ok := groups[r.ConversationID]; !ok {
			order = append(order, r.ConversationID)
		}
		groups[r.ConversationID] = append(groups[r.ConversationID], i)
	}

	now := sv.now()
	hl := "[" + ui.ColorName(sv.theme.CounterColor) + "::b]"
	marks := strings.NewReplacer("<<", hl, ">>", "[-:-:-]")
	row := 0
	for _, id := range order {
		idx := groups[id]
		header := fmt.Sprintf(" [%s::b]%s[-:-:-] [%s](%d)",
			ui.ColorName(sv.theme.TitleColor), display(results[idx[0]].ParticipantName),
			ui.ColorName(sv.theme.CounterColor), len(idx))
		sv.results.SetCell(row, 0, tview.NewTableCell(header).SetSelectable(false))
		sv.results.SetCell(row, 1, tview.NewTableCell("").SetSelectable(false))
		sv.results.SetCell(row, 2, tview.NewTableCell("").SetSelectable(false))
		sv.rows = append(sv.rows, -1)
		row++

		for _, i := range idx {
			r := results[i]
			who := "   them"
			whoColor := sv.theme.FgColor
			if r.Outgoing {
				who, whoColor = "   you", sv.theme.OwnMessageColor
			}
			text := marks.Replace(display(r.Snippet))
			if r.Message.Attachment != nil {
				text = fmt.Sprintf("[%s]📎[-] %s", ui.ColorName(sv.theme.AttachmentColor), text)
			}
			sv.results.SetCell(row, 0, tview.NewTableCell(who).SetTextColor(whoColor))
			sv.results.SetCell(row, 1, tview.NewTableCell(" "+text).SetExpansion(1).SetTextColor(sv.theme.FgColor))
			sv.results.SetCell(row, 2, tview.NewTableCell(formatTimestamp(r.Message.Timestamp, now)+" ").
				SetAlign(tview.AlignRight).SetTextColor(sv.theme.TickColor))
			sv.rows = append(sv.rows, i)
			row++
		}
	}

	if len(results) == 0 {
		sv.results.SetCell(0, 1, tview.NewTableCell(" No matches").SetSelectable(false).SetTextColor(sv.theme.FgColor))
		sv.rows = append(sv.rows, -1)
	}
	sv.renderTitle()
	if len(results) > 0 {
		sv.results.Select(1, 0)
	}
}

// SelectedResult returns the conversation and message id under the cursor.
func (sv *SearchView) SelectedResult() (conversationID, messageID string) {
	row, _ := sv.results.GetSelection()
	if row < 0 || row >= len(sv.rows) || sv.rows[row] < 0 {
		return "", ""
	}
	r := sv.data[sv.rows[row]]
	return r.ConversationID, r.Message.ID
}

func (sv *SearchView) renderTitle() {
	title := " All conversations "
	if sv.scoped {
		title = " In " + display(sv.scopeName) + " "
	}
	if n := len(sv.data); n > 0 {
		title += fmt.Sprintf("[%s](%d)[-] ", ui.ColorName(sv.theme.CounterColor), n)
	}
	sv.results.SetTitle(title)
}

// Input returns the search input field.
func (sv *SearchView) Input() *tview.InputField {
	return sv.input
}

// Results returns the results table.
func (sv *SearchView) Results() *tview.Table {
	return sv.results
}
