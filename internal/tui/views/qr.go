package views

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/matheus3301/p2pm/internal/chat"
	qrcode "github.com/skip2/go-qrcode"
)

// contactURI encodes the identity a peer needs to add this user.
func contactURI(u chat.User) string {
	q := url.Values{}
	q.Set("name", u.Name)
	q.Set("job", u.Job)
	return fmt.Sprintf("p2pm://contact/%s?%s", url.PathEscape(u.ID), q.Encode())
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters. Two bitmap rows become one terminal line.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█') // █
			case top && !bot:
				sb.WriteRune('▀') // ▀
			case !top && bot:
				sb.WriteRune('▄') // ▄
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
