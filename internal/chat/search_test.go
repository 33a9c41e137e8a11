package chat

import "testing"

func TestSearch(t *testing.T) {
	s, _, _ := seededStore(t)

	results := s.Search("REVIEW", "", 0)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	// Bob's PR (2h ago) is newer than Charlie's designs (24h ago).
	if results[0].ConversationID != "chat-2" || results[1].ConversationID != "chat-3" {
		t.Errorf("order = %s, %s", results[0].ConversationID, results[1].ConversationID)
	}
	if results[0].ParticipantName != "Bob" {
		t.Errorf("participant = %q", results[0].ParticipantName)
	}
	if results[0].Snippet != "Can you <<review>> my PR?" {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
	if results[0].Outgoing {
		t.Error("Bob's message reported as outgoing")
	}
}

func TestSearchScopedAndLimited(t *testing.T) {
	s, _, _ := seededStore(t)

	if got := s.Search("review", "chat-3", 0); len(got) != 1 || got[0].ConversationID != "chat-3" {
		t.Errorf("scoped results = %+v", got)
	}
	if got := s.Search("e", "", 2); len(got) != 2 {
		t.Errorf("limited results = %d, want 2", len(got))
	}
	if got := s.Search("   ", "", 0); got != nil {
		t.Errorf("blank query returned %d results", len(got))
	}
}

func TestSearchAttachmentName(t *testing.T) {
	s, _, _ := seededStore(t)
	mustOnboard(t, s)
	if _, err := s.Select("chat-1"); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := s.Send("", "", &Attachment{Name: "quarterly-report.pdf", MimeType: "application/pdf"}); err != nil {
		t.Fatal(err)
	}
	got := s.Search("report", "", 0)
	if len(got) != 1 || got[0].Message.Attachment == nil {
		t.Fatalf("results = %+v", got)
	}
	if got[0].Snippet != "quarterly-<<report>>.pdf" {
		t.Errorf("snippet = %q", got[0].Snippet)
	}
	if !got[0].Outgoing {
		t.Error("own attachment not reported as outgoing")
	}
}

func TestSnippetTrims(t *testing.T) {
	text := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa needle bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	got := snippet(text, "needle")
	want := "...aaaaaaaaaaaaaaaaaaaaaaa <<needle>> bbbbbbbbbbbbbbbbbbbbbbb..."
	if got != want {
		t.Errorf("snippet = %q, want %q", got, want)
	}
}

func TestSnippetCaseFoldingChangesWidth(t *testing.T) {
	tests := []struct {
		text, needle, want string
	}{
		// İ grows by one byte when lowered, ẞ shrinks by one.
		{"İ hello ẞ", "hello", "İ <<hello>> ẞ"},
		{"Straße ẞ PLAN", "plan", "Straße ẞ <<PLAN>>"},
		{"İstanbul trip", "i", "<<İ>>stanbul trip"},
		{"no match here", "zzz", "no match here"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := snippet(tt.text, tt.needle); got != tt.want {
				t.Errorf("snippet(%q, %q) = %q, want %q", tt.text, tt.needle, got, tt.want)
			}
		})
	}
}
