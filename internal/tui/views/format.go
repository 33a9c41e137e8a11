package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/tui/ui"
)

// formatTimestamp renders ms as a clock time for today and a date otherwise.
func formatTimestamp(ms int64, now time.Time) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms).In(now.Location())
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon")
	}
	return t.Format("01/02")
}

// statusTick renders the delivery indicator of an outgoing message.
func statusTick(s chat.Status, theme *ui.Theme) string {
	grey := ui.ColorName(theme.TickColor)
	switch s {
	case chat.StatusSent:
		return fmt.Sprintf("[%s]✓[-]", grey)
	case chat.StatusDelivered:
		return fmt.Sprintf("[%s]✓✓[-]", grey)
	case chat.StatusRead:
		return fmt.Sprintf("[%s]✓✓[-]", ui.ColorName(theme.TickReadColor))
	default:
		return ""
	}
}

// attachmentLine renders the attachment card shown under a message.
func attachmentLine(a *chat.Attachment, theme *ui.Theme) string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("[%s]📎 %s[-] [::d]%s[-:-:-]",
		ui.ColorName(theme.AttachmentColor), display(a.Name), display(a.Label()))
}
