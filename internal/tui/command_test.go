package tui

import (
	"slices"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"search hello world", Command{Name: "search", Args: "hello world"}},
		{"  SEARCH   spaced  ", Command{Name: "search", Args: "spaced"}},
		{"q", Command{Name: "quit"}},
		{"h", Command{Name: "help"}},
		{"open Alice Johnson", Command{Name: "chat", Args: "Alice Johnson"}},
		{"a ~/report.pdf", Command{Name: "attach", Args: "~/report.pdf"}},
		{"new Eve", Command{Name: "new", Args: "Eve"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseCommand(tt.input); got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompleteCommand(t *testing.T) {
	people := []string{"Sarah Chen", "Marcus Johnson", "Sam Rivera"}
	tests := []struct {
		input string
		want  []string
	}{
		{"s", []string{"search"}},
		{"re", []string{"reset"}},
		{"chat s", []string{"chat Sarah Chen", "chat Sam Rivera"}},
		{"c mar", []string{"chat Marcus Johnson"}},
		{"new s", nil},
		{"zz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CompleteCommand(tt.input, people); !slices.Equal(got, tt.want) {
				t.Errorf("CompleteCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
