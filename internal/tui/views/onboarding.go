package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/p2pm/internal/tui/ui"
	"github.com/rivo/tview"
)

// OnboardingView asks for the name and job of the local user.
type OnboardingView struct {
	*tview.Flex
	theme    *ui.Theme
	form     *tview.Form
	notice   *tview.TextView
	onSubmit func(name, job string)
}

// NewOnboardingView creates the first-run form.
func NewOnboardingView(theme *ui.Theme) *OnboardingView {
	ov := &OnboardingView{theme: theme}

	form := tview.NewForm().
		AddInputField("Name", "", 32, nil, nil).
		AddInputField("Job", "", 32, nil, nil)
	form.AddButton("Start", ov.submit)
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.TableCursorBg)
	form.SetButtonTextColor(theme.TableCursorFg)
	form.SetTitle(" Welcome: create your profile ")
	form.SetTitleColor(theme.TitleColor)
	form.SetCancelFunc(func() {})

	notice := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	notice.SetBackgroundColor(theme.BgColor)

	ov.form = form
	ov.notice = notice
	ov.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(form, 50, 0, true).
			AddItem(nil, 0, 1, false), 9, 0, true).
		AddItem(notice, 2, 0, false).
		AddItem(nil, 0, 1, false)
	ov.Flex.SetBackgroundColor(theme.BgColor)

	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			if idx, _ := form.GetFocusedItemIndex(); idx == form.GetFormItemCount()-1 {
				ov.submit()
				return nil
			}
		}
		return event
	})
	return ov
}

// Name implements Component.
func (ov *OnboardingView) Name() string { return "Onboarding" }

// Hints implements Component.
func (ov *OnboardingView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// SetOnSubmit sets the callback receiving trimmed, non-empty values.
func (ov *OnboardingView) SetOnSubmit(fn func(name, job string)) {
	ov.onSubmit = fn
}

// ShowError displays a validation or daemon error under the form.
func (ov *OnboardingView) ShowError(msg string) {
	ov.notice.Clear()
	ov.notice.SetText("[" + ui.ColorName(ov.theme.FlashErrColor) + "]" + tview.Escape(msg) + "[-]")
}

// Reset clears the form fields and any notice.
func (ov *OnboardingView) Reset() {
	ov.form.GetFormItemByLabel("Name").(*tview.InputField).SetText("")
	ov.form.GetFormItemByLabel("Job").(*tview.InputField).SetText("")
	ov.notice.Clear()
	ov.form.SetFocus(0)
}

// Form returns the form (for focus management).
func (ov *OnboardingView) Form() *tview.Form {
	return ov.form
}

func (ov *OnboardingView) submit() {
	name := strings.TrimSpace(ov.form.GetFormItemByLabel("Name").(*tview.InputField).GetText())
	job := strings.TrimSpace(ov.form.GetFormItemByLabel("Job").(*tview.InputField).GetText())
	if name == "" || job == "" {
		ov.ShowError("Both name and job are required.")
		return
	}
	ov.notice.Clear()
	if ov.onSubmit != nil {
		ov.onSubmit(name, job)
	}
}
