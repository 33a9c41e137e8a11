package attach

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheus3301/p2pm/internal/chat"
)

// ErrNotAFile is returned when the path names a directory or device.
var ErrNotAFile = errors.New("not a regular file")

const fallbackType = "application/octet-stream"

// Pick describes the file at path as an attachment. Only metadata is read;
// the content never leaves the filesystem.
func Pick(path string) (chat.Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return chat.Attachment{}, fmt.Errorf("%w: empty path", chat.ErrInvalidInput)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return chat.Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if !info.Mode().IsRegular() {
		return chat.Attachment{}, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	return chat.Attachment{Name: info.Name(), MimeType: TypeOf(info.Name())}, nil
}

// TypeOf guesses the MIME type of name from its extension.
func TypeOf(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return fallbackType
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}
