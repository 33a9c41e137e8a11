package views

import (
	"fmt"

	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView shows the local identity and its contact-card QR code.
type ProfileView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewProfileView creates a new profile view.
func NewProfileView(theme *ui.Theme) *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" My Profile ")
	tv.SetTitleColor(theme.TitleColor)

	return &ProfileView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (pv *ProfileView) Name() string { return "Profile" }

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// Update renders the identity card. A nil identity shows a placeholder.
func (pv *ProfileView) Update(u *chat.User) {
	pv.Clear()
	if u == nil {
		_, _ = fmt.Fprint(pv, "\n\nNo identity yet.")
		return
	}
	ct := ui.ColorName(pv.theme.CounterColor)
	_, _ = fmt.Fprintf(pv, "\n[%s::b]%s[-:-:-]\n%s\n[::d]%s[-:-:-]\n\n%s\n  [::d]Share this card so peers can add you.[-:-:-]",
		ct, display(u.Name), display(u.Job), display(u.ID), renderQR(contactURI(*u)))
	pv.ScrollToBeginning()
}
