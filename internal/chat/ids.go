package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns "<prefix>-<unix ms>-<random suffix>". The suffix keeps ids
// minted within the same millisecond distinct.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), uuid.NewString()[:8])
}
