package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	if alias, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = alias
	}
	return cmd
}

var commandAliases = map[string]string{
	"h":    "help",
	"q":    "quit",
	"q!":   "quit",
	"s":    "search",
	"c":    "chat",
	"open": "chat",
	"n":    "new",
	"a":    "attach",
	"me":   "profile",
}

var commandNames = []string{"attach", "chat", "help", "new", "profile", "quit", "reset", "search"}

// CompleteCommand suggests completions for a partially typed command. After
// "chat " it completes participant names instead of command names.
func CompleteCommand(input string, participants []string) []string {
	lower := strings.ToLower(strings.TrimLeft(input, " "))
	name, arg, hasArg := strings.Cut(lower, " ")
	var out []string
	if !hasArg {
		for _, c := range commandNames {
			if strings.HasPrefix(c, name) {
				out = append(out, c)
			}
		}
		return out
	}
	if alias, ok := commandAliases[name]; ok {
		name = alias
	}
	if name != "chat" {
		return nil
	}
	arg = strings.TrimSpace(arg)
	for _, p := range participants {
		if strings.HasPrefix(strings.ToLower(p), arg) {
			out = append(out, "chat "+p)
		}
	}
	return out
}
