package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/p2pm/internal/attach"
	"github.com/matheus3301/p2pm/internal/bus"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/status"
	"github.com/matheus3301/p2pm/internal/tui/client"
	"github.com/matheus3301/p2pm/internal/tui/keys"
	"github.com/matheus3301/p2pm/internal/tui/model"
	"github.com/matheus3301/p2pm/internal/tui/ui"
	"github.com/matheus3301/p2pm/internal/tui/views"
	"github.com/matheus3301/p2pm/internal/wire"
	"github.com/rivo/tview"
)

// Page names.
const (
	pageOnboarding    = "onboarding"
	pageConversations = "conversations"
	pageThread        = "thread"
	pageDetails       = "details"
	pageSearch        = "search"
	pageHelp          = "help"
	pageProfile       = "profile"
)

const rpcTimeout = 5 * time.Second

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	pages    *ui.Pages
	body     *tview.Flex
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	info     *ui.ProfileInfo
	logo     *ui.Logo
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	prompt   *ui.Prompt
	vm       *model.ViewModel
	registry *keys.Registry

	onboarding *views.OnboardingView
	list       *views.ConversationList
	thread     *views.MessageThread
	details    *views.ConversationInfo
	search     *views.SearchView
	help       *views.HelpView
	profile    *views.ProfileView

	profileName  string
	promptActive bool
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:         tview.NewApplication(),
		theme:       theme,
		pages:       ui.NewPages(),
		crumbs:      ui.NewCrumbs(theme),
		menu:        ui.NewMenu(theme),
		info:        ui.NewProfileInfo(theme),
		logo:        ui.NewLogo(theme),
		flash:       ui.NewFlashModel(),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		vm:          model.NewViewModel(c),
		registry:    keys.NewRegistry(),
		onboarding:  views.NewOnboardingView(theme),
		list:        views.NewConversationList(theme),
		thread:      views.NewMessageThread(theme),
		details:     views.NewConversationInfo(theme),
		search:      views.NewSearchView(theme),
		help:        views.NewHelpView(theme),
		profile:     views.NewProfileView(theme),
		profileName: profileName,
		ctx:         ctx,
		cancel:      cancel,
	}
	a.crumbs.SetProfile(profileName)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Key: tcell.KeyRune, Rune: 'q',
		Description: "q:quit", Visible: true,
		Handler: a.Stop,
	})
	a.registry.AddGlobal("help", &keys.Action{
		Key: tcell.KeyRune, Rune: '?',
		Description: "?:help", Visible: true,
		Handler: func() { a.push(pageHelp) },
	})
	a.registry.AddGlobal("profile", &keys.Action{
		Key: tcell.KeyRune, Rune: 'p',
		Description: "p:profile", Visible: true,
		Handler: a.showProfile,
	})
	a.registry.AddGlobal("command", &keys.Action{
		Key: tcell.KeyRune, Rune: ':',
		Description: "::command", Visible: true,
		Handler: func() { a.activatePrompt(ui.PromptCommand) },
	})

	a.registry.AddView(pageConversations, "new", &keys.Action{
		Key: tcell.KeyRune, Rune: 'n',
		Description: "n:new chat", Visible: true,
		Handler: func() { a.activatePrompt(ui.PromptContact) },
	})
	a.registry.AddView(pageConversations, "filter", &keys.Action{
		Key: tcell.KeyRune, Rune: '/',
		Description: "/:filter", Visible: true,
		Handler: func() { a.activatePrompt(ui.PromptFilter) },
	})
	a.registry.AddView(pageConversations, "clear-filter", &keys.Action{
		Key: tcell.KeyRune, Rune: '0',
		Handler: a.list.ClearFilter,
	})
	a.registry.AddView(pageConversations, "search", &keys.Action{
		Key: tcell.KeyRune, Rune: 's',
		Description: "s:search", Visible: true,
		Handler: func() { a.showSearch("") },
	})
	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageConversations, fmt.Sprintf("jump-%d", n), &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Handler: func() {
				if id := a.list.ConversationByIndex(n); id != "" {
					a.openConversation(id)
				}
			},
		})
	}

	a.registry.AddView(pageThread, "compose", &keys.Action{
		Key: tcell.KeyRune, Rune: 'i',
		Description: "i:compose", Visible: true,
		Handler: func() { a.app.SetFocus(a.thread.Composer()) },
	})
	a.registry.AddView(pageThread, "attach", &keys.Action{
		Key: tcell.KeyRune, Rune: 'a',
		Description: "a:attach", Visible: true,
		Handler: func() { a.activatePrompt(ui.PromptAttach) },
	})
	a.registry.AddView(pageThread, "drop-attachment", &keys.Action{
		Key: tcell.KeyRune, Rune: 'x',
		Handler: func() {
			if a.thread.PendingAttachment() != nil {
				a.thread.SetPendingAttachment(nil)
				a.flash.Info("Attachment dropped")
			}
		},
	})
	a.registry.AddView(pageThread, "search", &keys.Action{
		Key: tcell.KeyRune, Rune: 's',
		Description: "s:search here", Visible: true,
		Handler: func() { a.showSearch("") },
	})
	a.registry.AddView(pageThread, "details", &keys.Action{
		Key: tcell.KeyRune, Rune: 'd',
		Description: "d:details", Visible: true,
		Handler: func() {
			if conv, ok := a.vm.Active(); ok {
				a.details.Update(conv)
				a.push(pageDetails)
			}
		},
	})
}

func (a *App) setupCallbacks() {
	a.onboarding.SetOnSubmit(a.completeOnboarding)

	a.list.SetSelectedFunc(func(row, _ int) {
		if id := a.list.ConversationByIndex(row); id != "" {
			a.openConversation(id)
		}
	})

	a.thread.SetOnSend(a.send)

	a.search.SetOnQuery(a.runSearch)
	a.search.Results().SetSelectedFunc(func(int, int) {
		if id, _ := a.search.SelectedResult(); id != "" {
			a.openConversation(id)
		}
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.closePrompt()
		switch mode {
		case ui.PromptCommand:
			a.executeCommand(ParseCommand(text))
		case ui.PromptFilter:
			a.list.SetFilter(text)
		case ui.PromptAttach:
			a.stageAttachment(text)
		case ui.PromptContact:
			a.startConversation(text)
		}
	})
	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.list.SetFilter(text)
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.list.ClearFilter()
		}
		a.closePrompt()
	})
	a.prompt.SetCompleter(func(mode ui.PromptMode, text string) []string {
		if mode != ui.PromptCommand {
			return nil
		}
		convs, _ := a.vm.Conversations()
		names := make([]string, 0, len(convs))
		for _, c := range convs {
			names = append(names, c.Participant.Name)
		}
		return CompleteCommand(text, names)
	})

	a.pages.SetOnChange(func(top ui.Component, trail []string) {
		a.crumbs.Update(trail)
		if top != nil {
			a.menu.Update(top.Hints())
		}
	})
}

func (a *App) setupLayout() {
	a.pages.Add(pageOnboarding, a.onboarding)
	a.pages.Add(pageConversations, a.list)
	a.pages.Add(pageThread, a.thread)
	a.pages.Add(pageDetails, a.details)
	a.pages.Add(pageSearch, a.search)
	a.pages.Add(pageHelp, a.help)
	a.pages.Add(pageProfile, a.profile)

	header := tview.NewFlex().
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 18, 0, false)

	a.body = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.body, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	// The prompt handles Enter and Esc itself.
	if a.promptActive {
		return event
	}
	page := a.pages.Current()
	if page == pageOnboarding {
		return event
	}

	// Let text input widgets handle all keys normally.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		switch {
		case event.Key() == tcell.KeyEscape && page == pageThread:
			a.app.SetFocus(a.thread.Messages())
			return nil
		case event.Key() == tcell.KeyEscape:
			a.back()
			return nil
		case event.Key() == tcell.KeyTab && page == pageSearch:
			a.app.SetFocus(a.search.Results())
			return nil
		}
		return event
	}

	if event.Key() == tcell.KeyEscape {
		a.back()
		return nil
	}
	if a.registry.HandleEvent(page, event) {
		return nil
	}
	return event
}

func (a *App) push(name string) {
	if a.pages.Current() == name {
		return
	}
	a.pages.Push(name)
	a.focusPage(name)
}

func (a *App) back() {
	if a.pages.Depth() <= 1 {
		return
	}
	if a.pages.Pop() == pageThread {
		go func() {
			ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
			defer cancel()
			if err := a.vm.Close(ctx); err != nil {
				a.flash.Err(err)
			}
		}()
	}
	a.focusPage(a.pages.Current())
}

func (a *App) focusPage(name string) {
	switch name {
	case pageOnboarding:
		a.app.SetFocus(a.onboarding.Form())
	case pageConversations:
		a.app.SetFocus(a.list)
	case pageThread:
		a.app.SetFocus(a.thread.Messages())
	case pageSearch:
		a.app.SetFocus(a.search.Input())
	case pageDetails:
		a.app.SetFocus(a.details)
	case pageHelp:
		a.app.SetFocus(a.help)
	case pageProfile:
		a.app.SetFocus(a.profile)
	}
}

func (a *App) activatePrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.body.ResizeItem(a.prompt, 3, 0)
	a.promptActive = true
	a.app.SetFocus(a.prompt)
}

func (a *App) closePrompt() {
	a.body.ResizeItem(a.prompt, 0, 0)
	a.promptActive = false
	a.focusPage(a.pages.Current())
}

func (a *App) executeCommand(cmd Command) {
	switch cmd.Name {
	case "quit":
		a.Stop()
	case "help":
		a.push(pageHelp)
	case "profile":
		a.showProfile()
	case "search":
		a.showSearch(cmd.Args)
	case "new":
		if cmd.Args == "" {
			a.flash.Warn("usage: :new <name>")
			return
		}
		a.startConversation(cmd.Args)
	case "chat":
		conv, ok := a.vm.FindByName(cmd.Args)
		if !ok {
			a.flash.Warn(fmt.Sprintf("No conversation with %q", cmd.Args))
			return
		}
		a.openConversation(conv.ID)
	case "attach":
		if a.pages.Current() != pageThread {
			a.flash.Warn("Open a conversation before attaching a file")
			return
		}
		a.stageAttachment(cmd.Args)
	case "reset":
		a.reset()
	default:
		a.flash.Warn("Unknown command: "+cmd.Name)
	}
}

func (a *App) completeOnboarding(name, job string) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
		defer cancel()
		u, err := a.vm.SetIdentity(ctx, name, job)
		if err != nil {
			a.app.QueueUpdateDraw(func() { a.onboarding.ShowError(err.Error()) })
			return
		}
		_ = a.vm.Refresh(ctx)
		a.flash.Info(fmt.Sprintf("Welcome, %s!", u.Name))
		a.app.QueueUpdateDraw(func() {
			a.pages.Reset(pageConversations)
			a.focusPage(pageConversations)
			a.render()
		})
	}()
}

func (a *App) openConversation(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
		defer cancel()
		conv, err := a.vm.Open(ctx, id)
		if err != nil {
			a.flash.Err(err)
			return
		}
		_ = a.vm.LoadConversations(ctx)
		a.app.QueueUpdateDraw(func() {
			a.thread.Update(conv)
			if a.pages.Current() != pageThread {
				a.pages.PopTo(pageConversations)
				a.pages.Push(pageThread)
			}
			a.focusPage(pageThread)
			a.render()
		})
	}()
}

func (a *App) startConversation(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
		defer cancel()
		conv, err := a.vm.Start(ctx, name)
		if err != nil {
			a.flash.Err(err)
			return
		}
		_ = a.vm.LoadConversations(ctx)
		a.app.QueueUpdateDraw(func() {
			a.thread.Update(conv)
			a.pages.PopTo(pageConversations)
			a.pages.Push(pageThread)
			a.app.SetFocus(a.thread.Composer())
			a.render()
		})
	}()
}

func (a *App) send(text string, attachment *chat.Attachment) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
		defer cancel()
		if _, err := a.vm.Send(ctx, text, attachment); err != nil {
			a.flash.Err(err)
			return
		}
		a.refresh(ctx)
	}()
}

// stageAttachment runs on the UI goroutine; Pick only stats the file.
func (a *App) stageAttachment(path string) {
	att, err := attach.Pick(path)
	if err != nil {
		a.flash.Err(err)
		return
	}
	a.thread.SetPendingAttachment(&att)
	a.flash.Info(fmt.Sprintf("Attached %s, press Enter in the composer to send", att.Name))
	a.app.SetFocus(a.thread.Composer())
}

// showSearch opens the search page, scoped to the open thread when there
// is one.
func (a *App) showSearch(query string) {
	if conv, ok := a.vm.Active(); ok && a.pages.Contains(pageThread) {
		a.search.SetScope(conv.ID, conv.Participant.Name)
	} else {
		a.search.SetScope("", "")
	}
	a.push(pageSearch)
	if query != "" {
		a.search.SetQuery(query)
		a.runSearch(query, a.search.Scope())
	}
}

func (a *App) runSearch(query, conversationID string) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
		defer cancel()
		results, err := a.vm.Search(ctx, query, conversationID)
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.search.Update(results)
			a.pages.Refresh()
			if len(results) > 0 {
				a.app.SetFocus(a.search.Results())
			}
		})
	}()
}

func (a *App) showProfile() {
	a.profile.Update(a.vm.Identity())
	a.push(pageProfile)
}

func (a *App) reset() {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
		defer cancel()
		if err := a.vm.Reset(ctx); err != nil {
			a.flash.Err(err)
			return
		}
		a.refresh(ctx)
	}()
}

// refresh reloads everything from the daemon and redraws. Safe to call from
// any goroutine except the UI one.
func (a *App) refresh(ctx context.Context) {
	if err := a.vm.Refresh(ctx); err != nil && a.ctx.Err() == nil {
		a.flash.Err(err)
	}
	a.app.QueueUpdateDraw(a.render)
}

// render pushes the cached view model into the views. UI goroutine only.
func (a *App) render() {
	convs, focused := a.vm.Conversations()
	a.list.Update(convs, focused)

	if conv, ok := a.vm.Active(); ok && conv.ID == a.thread.ConversationID() {
		a.thread.Update(conv)
		if a.pages.Current() == pageDetails {
			a.details.Update(conv)
		}
	}

	identity := a.vm.Identity()
	data := &ui.ProfileData{Profile: a.profileName}
	if st := a.vm.Status(); st != nil {
		data.Status = st.Status
		data.ChatCount = st.ConversationCount
		data.MessageCount = st.MessageCount
		data.PendingReplies = st.PendingReplies
		data.Uptime = time.Duration(st.UptimeMs) * time.Millisecond
	}
	if identity != nil {
		data.Name = identity.Name
		data.Job = identity.Job
	}
	a.info.Update(data)
	if a.pages.Current() == pageProfile {
		a.profile.Update(identity)
	}

	switch current := a.pages.Current(); {
	case a.vm.Status() == nil:
		// Nothing loaded yet.
	case identity == nil && current != pageOnboarding:
		a.onboarding.Reset()
		a.pages.Reset(pageOnboarding)
		a.focusPage(pageOnboarding)
	case identity != nil && (current == pageOnboarding || current == ""):
		a.pages.Reset(pageConversations)
		a.focusPage(pageConversations)
	}

	a.pages.Refresh()
	a.flashBar.Update(a.flash.Current())
}

func (a *App) onEvent(evt *wire.Event) {
	ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
	defer cancel()

	switch evt.Kind {
	case bus.MessageReceived:
		if active, ok := a.vm.Active(); !ok || active.ID != evt.ConversationID {
			for _, c := range a.conversationsSnapshot() {
				if c.ID == evt.ConversationID {
					a.flash.Incoming(c.Participant.Name)
					break
				}
			}
		}
	case bus.ProfileStatusChanged:
		if evt.Status == string(status.Error) {
			a.flash.Warn("Daemon reported an error, see the log")
		}
	}
	a.refresh(ctx)
}

func (a *App) conversationsSnapshot() []chat.Conversation {
	convs, _ := a.vm.Conversations()
	return convs
}

// watchLoop keeps a WatchEvents stream open, reconnecting after failures.
func (a *App) watchLoop() {
	for a.ctx.Err() == nil {
		err := a.vm.Watch(a.ctx, a.onEvent)
		if a.ctx.Err() != nil {
			return
		}
		if err != nil {
			a.flash.Warn("Event stream lost, reconnecting: "+err.Error())
		}
		select {
		case <-time.After(2 * time.Second):
			a.refresh(a.ctx)
		case <-a.ctx.Done():
			return
		}
	}
}

// tickLoop refreshes the status header and redraws the flash bar whenever
// a message is set, from any goroutine.
func (a *App) tickLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(a.ctx, rpcTimeout)
			_ = a.vm.LoadStatus(ctx)
			cancel()
			a.app.QueueUpdateDraw(a.render)
		case <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.Current()) })
		case <-a.ctx.Done():
			return
		}
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.cancel()
	go func() {
		a.refresh(a.ctx)
		go a.watchLoop()
		a.tickLoop()
	}()
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
