package views

import (
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/tui/ui"
)

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"today", now.Add(-5 * time.Minute), "14:55"},
		{"this week", now.Add(-48 * time.Hour), "Tue"},
		{"older", now.Add(-30 * 24 * time.Hour), "02/13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimestamp(tt.at.UnixMilli(), now); got != tt.want {
				t.Errorf("formatTimestamp = %q, want %q", got, tt.want)
			}
		})
	}
	if got := formatTimestamp(0, now); got != "" {
		t.Errorf("formatTimestamp(0) = %q, want empty", got)
	}
}

func TestStatusTick(t *testing.T) {
	theme := ui.DefaultTheme()
	sent := statusTick(chat.StatusSent, theme)
	delivered := statusTick(chat.StatusDelivered, theme)
	read := statusTick(chat.StatusRead, theme)

	if !strings.Contains(sent, "✓") || strings.Contains(sent, "✓✓") {
		t.Errorf("sent tick = %q, want a single tick", sent)
	}
	if !strings.Contains(delivered, "✓✓") || !strings.Contains(read, "✓✓") {
		t.Errorf("delivered/read ticks = %q / %q, want double ticks", delivered, read)
	}
	if delivered == read {
		t.Error("read tick is not coloured differently from delivered")
	}
	if !strings.Contains(read, ui.ColorName(theme.TickReadColor)) {
		t.Errorf("read tick = %q, want read colour", read)
	}
}

func TestAttachmentLine(t *testing.T) {
	theme := ui.DefaultTheme()
	got := attachmentLine(&chat.Attachment{Name: "report.pdf", MimeType: "application/pdf"}, theme)
	if !strings.Contains(got, "report.pdf") || !strings.Contains(got, "PDF Document") {
		t.Errorf("attachmentLine = %q", got)
	}
	if attachmentLine(nil, theme) != "" {
		t.Error("attachmentLine(nil) is not empty")
	}
}

func TestDisplayEscapesTags(t *testing.T) {
	if got := display("[red]hi👍🏻"); got != "[red[]hi👍" {
		t.Errorf("display = %q", got)
	}
}

func TestContactQR(t *testing.T) {
	u := chat.User{ID: "user-1-abc", Name: "Ada Lovelace", Job: "Engineer"}
	uri := contactURI(u)
	if !strings.HasPrefix(uri, "p2pm://contact/user-1-abc?") || !strings.Contains(uri, "name=Ada+Lovelace") {
		t.Errorf("contactURI = %q", uri)
	}
	qr := renderQR(uri)
	if !strings.ContainsAny(qr, "█▀▄") {
		t.Errorf("renderQR produced no blocks:\n%s", qr)
	}
}
