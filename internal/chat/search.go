package chat

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

const snippetRadius = 24

// SearchResult is a message matching a search query.
type SearchResult struct {
	ConversationID  string  `json:"conversationId"`
	ParticipantName string  `json:"participantName"`
	Message         Message `json:"message"`
	Snippet         string  `json:"snippet"`
	Outgoing        bool    `json:"outgoing"`
}

// Search finds messages whose text or attachment name contains query,
// ignoring case. Results are newest first. An empty conversationID searches
// every conversation; limit <= 0 means 50.
func (s *Store) Search(query, conversationID string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 50
	}
	needle := strings.ToLower(query)

	s.mu.Lock()
	var results []SearchResult
	for _, c := range s.convs {
		if conversationID != "" && c.ID != conversationID {
			continue
		}
		for _, m := range c.Messages {
			hay := m.Text
			if !strings.Contains(strings.ToLower(hay), needle) {
				if m.Attachment == nil || !strings.Contains(strings.ToLower(m.Attachment.Name), needle) {
					continue
				}
				hay = m.Attachment.Name
			}
			if m.Attachment != nil {
				a := *m.Attachment
				m.Attachment = &a
			}
			results = append(results, SearchResult{
				ConversationID:  c.ID,
				ParticipantName: c.Participant.Name,
				Message:         m,
				Snippet:         snippet(hay, needle),
				Outgoing:        !c.Incoming(m),
			})
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Compare(b.Message.Timestamp, a.Message.Timestamp)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// snippet marks the first match of needle in text with << >> and trims the
// surroundings to snippetRadius runes on each side.
func snippet(text, needle string) string {
	lower, from, to := lowerIndexed(text)
	li := strings.Index(lower, needle)
	if li < 0 || needle == "" {
		return text
	}
	idx, end := from[li], to[li+len(needle)-1]

	start := idx
	for n := 0; start > 0 && n < snippetRadius; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	stop := end
	for n := 0; stop < len(text) && n < snippetRadius; n++ {
		_, size := utf8.DecodeRuneInString(text[stop:])
		stop += size
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(text[start:idx])
	b.WriteString("<<")
	b.WriteString(text[idx:end])
	b.WriteString(">>")
	b.WriteString(text[end:stop])
	if stop < len(text) {
		b.WriteString("...")
	}
	return b.String()
}

// lowerIndexed lowercases text and, for every byte of the result, records
// the byte range of the source rune it came from. Lowercasing can change a
// rune's encoded length, so offsets in the result do not line up with text.
func lowerIndexed(text string) (lower string, from, to []int) {
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range text {
		l := strings.ToLower(string(r))
		end := i + utf8.RuneLen(r)
		if r == utf8.RuneError {
			_, end = utf8.DecodeRuneInString(text[i:])
			end += i
		}
		b.WriteString(l)
		for range len(l) {
			from = append(from, i)
			to = append(to, end)
		}
	}
	return b.String(), from, to
}
