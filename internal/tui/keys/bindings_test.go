package keys

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHandleEventPrefersViewBinding(t *testing.T) {
	r := NewRegistry()
	var got []string
	r.AddGlobal("quit", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = append(got, "global") }})
	r.AddView("thread", "quit", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = append(got, "thread") }})

	if !r.HandleEvent("thread", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("HandleEvent(thread, q) = false")
	}
	if !r.HandleEvent("list", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("HandleEvent(list, q) = false")
	}
	if want := []string{"thread", "global"}; !slices.Equal(got, want) {
		t.Errorf("handlers = %v, want %v", got, want)
	}
	if r.HandleEvent("list", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)) {
		t.Error("HandleEvent(z) = true, want false")
	}
}

func TestMatchesSpecialKey(t *testing.T) {
	a := &Action{Key: tcell.KeyEscape}
	if !a.Matches(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Escape action did not match Escape")
	}
	if a.Matches(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone)) {
		t.Error("Escape action matched a rune")
	}
}

func TestHintsKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal("help", &Action{Description: "?:help", Visible: true})
	r.AddGlobal("hidden", &Action{Description: "x", Visible: false})
	r.AddView("list", "new", &Action{Description: "n:new", Visible: true})
	r.AddView("list", "filter", &Action{Description: "/:filter", Visible: true})
	r.AddView("list", "new", &Action{Description: "n:new chat", Visible: true})

	want := []string{"n:new chat", "/:filter", "?:help"}
	if got := r.Hints("list"); !slices.Equal(got, want) {
		t.Errorf("Hints = %v, want %v", got, want)
	}
}
