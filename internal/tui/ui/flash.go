package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rivo/tview"
)

// FlashLevel is the severity of a notice.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
	// FlashIncoming announces messages that arrived outside the open thread.
	FlashIncoming
)

var flashTTL = map[FlashLevel]time.Duration{
	FlashInfo:     4 * time.Second,
	FlashWarn:     8 * time.Second,
	FlashErr:      10 * time.Second,
	FlashIncoming: 6 * time.Second,
}

// FlashMessage is one notice shown in the flash bar.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
	// Sender and Count are set for FlashIncoming notices.
	Sender string
	Count  int
}

// FlashModel holds the current notice. Setters are safe from any goroutine;
// Watch signals the UI goroutine to redraw.
type FlashModel struct {
	mu      sync.Mutex
	clock   clock.Clock
	current FlashMessage
	watchCh chan struct{}
}

// NewFlashModel creates a flash model on the wall clock.
func NewFlashModel() *FlashModel {
	return NewFlashModelWithClock(clock.New())
}

// NewFlashModelWithClock creates a flash model reading time from clk.
func NewFlashModelWithClock(clk clock.Clock) *FlashModel {
	return &FlashModel{clock: clk, watchCh: make(chan struct{}, 1)}
}

func (f *FlashModel) Info(msg string) { f.set(FlashMessage{Text: msg, Level: FlashInfo}) }
func (f *FlashModel) Warn(msg string) { f.set(FlashMessage{Text: msg, Level: FlashWarn}) }
func (f *FlashModel) Err(err error)   { f.set(FlashMessage{Text: err.Error(), Level: FlashErr}) }

// Incoming announces a message from sender. While the previous incoming
// notice for the same sender is still visible the two are merged.
func (f *FlashModel) Incoming(sender string) {
	f.mu.Lock()
	count := 1
	cur := f.current
	if cur.Level == FlashIncoming && cur.Sender == sender && f.clock.Now().Before(cur.Expires) {
		count = cur.Count + 1
	}
	f.mu.Unlock()

	text := "New message from " + sender
	if count > 1 {
		text = fmt.Sprintf("%d new messages from %s", count, sender)
	}
	f.set(FlashMessage{Text: text, Level: FlashIncoming, Sender: sender, Count: count})
}

// Clear drops the current notice.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
	f.notify()
}

func (f *FlashModel) set(m FlashMessage) {
	m.Expires = f.clock.Now().Add(flashTTL[m.Level])
	f.mu.Lock()
	f.current = m
	f.mu.Unlock()
	f.notify()
}

func (f *FlashModel) notify() {
	select {
	case f.watchCh <- struct{}{}:
	default:
	}
}

// Current returns the visible notice, or nil once it has expired.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Text == "" || !f.clock.Now().Before(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// Watch fires after every change. Signals coalesce.
func (f *FlashModel) Watch() <-chan struct{} {
	return f.watchCh
}

// FlashBar renders the current notice on one line.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates the flash bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &FlashBar{TextView: tv, theme: theme}
}

// Update redraws the bar with msg; nil empties it.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}
	color := fb.theme.FlashInfoColor
	prefix := ""
	switch msg.Level {
	case FlashWarn:
		color = fb.theme.FlashWarnColor
	case FlashErr:
		color = fb.theme.FlashErrColor
	case FlashIncoming:
		color = fb.theme.UnreadColor
		prefix = "● "
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s%s[-]", ColorName(color), prefix, tview.Escape(msg.Text))
}
