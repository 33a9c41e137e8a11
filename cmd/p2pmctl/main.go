package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/matheus3301/p2pm/internal/attach"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/profile"
	"github.com/matheus3301/p2pm/internal/tui/client"
	"github.com/matheus3301/p2pm/internal/wire"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c, err := client.New(profile.SocketPath(profileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot connect to daemon for profile %q: %v\n", profileName, err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	if args[0] == "watch" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}
		cmdWatch(ctx, c, prefix, *jsonFlag)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out := *jsonFlag

	switch args[0] {
	case "status":
		cmdStatus(ctx, c, out)
	case "whoami":
		cmdWhoami(ctx, c, out)
	case "onboard":
		if len(args) < 3 {
			usageError("p2pmctl onboard <name> <job>")
		}
		cmdOnboard(ctx, c, args[1], strings.Join(args[2:], " "), out)
	case "reset":
		_, err := c.Profile.Reset(ctx, &wire.Empty{})
		check(err)
		fmt.Println("Profile reset. Onboarding required.")
	case "list":
		cmdList(ctx, c, strings.Join(args[1:], " "), out)
	case "show":
		if len(args) < 2 {
			usageError("p2pmctl show <conversation-id>")
		}
		resp, err := c.Chat.GetConversation(ctx, &wire.ConversationRequest{ID: args[1]})
		check(err)
		printConversation(resp.Conversation, out)
	case "select":
		if len(args) < 2 {
			usageError("p2pmctl select <conversation-id>")
		}
		resp, err := c.Chat.SelectConversation(ctx, &wire.ConversationRequest{ID: args[1]})
		check(err)
		printConversation(resp.Conversation, out)
	case "unfocus":
		_, err := c.Chat.ClearFocus(ctx, &wire.Empty{})
		check(err)
	case "new":
		if len(args) < 2 {
			usageError("p2pmctl new <participant-name>")
		}
		resp, err := c.Chat.StartConversation(ctx, &wire.StartConversationRequest{ParticipantName: strings.Join(args[1:], " ")})
		check(err)
		if out {
			outputJSON(resp)
			return
		}
		fmt.Printf("Started %s with %s\n", resp.Conversation.ID, resp.Conversation.Participant.Name)
	case "send":
		cmdSend(ctx, c, args[1:], out)
	case "search":
		if len(args) < 2 {
			usageError("p2pmctl search <query>")
		}
		cmdSearch(ctx, c, strings.Join(args[1:], " "), out)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: p2pmctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status                       Show daemon status")
	fmt.Fprintln(os.Stderr, "  whoami                       Show the local identity")
	fmt.Fprintln(os.Stderr, "  onboard <name> <job>         Create the local identity")
	fmt.Fprintln(os.Stderr, "  reset                        Forget identity and restore seed data")
	fmt.Fprintln(os.Stderr, "  list [filter]                List conversations")
	fmt.Fprintln(os.Stderr, "  show <id>                    Print a conversation")
	fmt.Fprintln(os.Stderr, "  select <id>                  Focus a conversation and mark it read")
	fmt.Fprintln(os.Stderr, "  unfocus                      Leave the focused conversation")
	fmt.Fprintln(os.Stderr, "  new <name>                   Start a conversation")
	fmt.Fprintln(os.Stderr, "  send [--attach path] <text>  Send to the focused conversation")
	fmt.Fprintln(os.Stderr, "  search <query>               Search messages")
	fmt.Fprintln(os.Stderr, "  watch [prefix]               Stream daemon events")
}

func cmdStatus(ctx context.Context, c *client.Client, jsonOut bool) {
	resp, err := c.Profile.GetStatus(ctx, &wire.Empty{})
	check(err)
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Profile:   %s\n", resp.Profile)
	fmt.Printf("Status:    %s\n", resp.Status)
	fmt.Printf("Uptime:    %s\n", (time.Duration(resp.UptimeMs) * time.Millisecond).Round(time.Second))
	fmt.Printf("Storage:   %s\n", resp.StorageBackend)
	fmt.Printf("Chats:     %d (%d messages)\n", resp.ConversationCount, resp.MessageCount)
	fmt.Printf("Pending:   %d replies\n", resp.PendingReplies)
	if resp.FocusedConversationID != "" {
		fmt.Printf("Focused:   %s\n", resp.FocusedConversationID)
	}
}

func cmdWhoami(ctx context.Context, c *client.Client, jsonOut bool) {
	resp, err := c.Profile.GetIdentity(ctx, &wire.Empty{})
	check(err)
	if jsonOut {
		outputJSON(resp)
		return
	}
	if resp.Identity == nil {
		fmt.Println("No identity yet. Use: p2pmctl onboard <name> <job>")
		return
	}
	fmt.Printf("%s (%s)\n", resp.Identity.Name, resp.Identity.Job)
	fmt.Printf("ID: %s\n", resp.Identity.ID)
}

func cmdOnboard(ctx context.Context, c *client.Client, name, job string, jsonOut bool) {
	resp, err := c.Profile.SetIdentity(ctx, &wire.SetIdentityRequest{Name: name, Job: job})
	check(err)
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Welcome, %s.\n", resp.Identity.Name)
}

func cmdList(ctx context.Context, c *client.Client, filter string, jsonOut bool) {
	resp, err := c.Chat.ListConversations(ctx, &wire.ListConversationsRequest{Filter: filter})
	check(err)
	if jsonOut {
		outputJSON(resp)
		return
	}
	if len(resp.Conversations) == 0 {
		fmt.Println("No conversations found.")
		return
	}
	for _, conv := range resp.Conversations {
		marker := " "
		if conv.ID == resp.FocusedConversationID {
			marker = "*"
		}
		unread := ""
		if conv.UnreadCount > 0 {
			unread = fmt.Sprintf(" [%d]", conv.UnreadCount)
		}
		fmt.Printf("%s %-24s %-16s%s  %s\n", marker, conv.ID, conv.Participant.Name, unread, conv.Preview())
	}
}

func cmdSend(ctx context.Context, c *client.Client, args []string, jsonOut bool) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	attachPath := fs.String("attach", "", "file to attach (only its name and type are sent)")
	to := fs.String("to", "", "conversation id (defaults to the focused one)")
	_ = fs.Parse(args)

	req := &wire.SendMessageRequest{ConversationID: *to, Text: strings.Join(fs.Args(), " ")}
	if *attachPath != "" {
		a, err := attach.Pick(*attachPath)
		check(err)
		req.Attachment = &a
	}
	resp, err := c.Message.SendMessage(ctx, req)
	check(err)
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Sent %s to %s\n", resp.Message.ID, resp.ConversationID)
}

func cmdSearch(ctx context.Context, c *client.Client, query string, jsonOut bool) {
	resp, err := c.Chat.SearchMessages(ctx, &wire.SearchMessagesRequest{Query: query})
	check(err)
	if jsonOut {
		outputJSON(resp)
		return
	}
	if len(resp.Results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, r := range resp.Results {
		ts := time.UnixMilli(r.Message.Timestamp).Format("2006-01-02 15:04")
		dir := "<"
		if r.Outgoing {
			dir = ">"
		}
		fmt.Printf("%s  %-16s %s %s\n", ts, r.ParticipantName, dir, r.Snippet)
	}
}

func cmdWatch(ctx context.Context, c *client.Client, prefix string, jsonOut bool) {
	stream, err := c.Message.WatchEvents(ctx, &wire.WatchEventsRequest{Prefix: prefix})
	check(err)
	for {
		evt, err := stream.Recv()
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return
		}
		check(err)
		if jsonOut {
			outputJSON(evt)
			continue
		}
		line := fmt.Sprintf("%s %-22s", time.UnixMilli(evt.OccurredAtUnixMs).Format("15:04:05"), evt.Kind)
		if evt.ConversationID != "" {
			line += " " + evt.ConversationID
		}
		if evt.Message != nil {
			line += ": " + messageText(*evt.Message)
		}
		if evt.Status != "" {
			line += " " + evt.Status
		}
		fmt.Println(line)
	}
}

func printConversation(conv chat.Conversation, jsonOut bool) {
	if jsonOut {
		outputJSON(conv)
		return
	}
	fmt.Printf("%s · %s\n", conv.Participant.Name, conv.Participant.Job)
	for _, m := range conv.Messages {
		who := "you"
		if conv.Incoming(m) {
			who = conv.Participant.Name
		}
		ts := time.UnixMilli(m.Timestamp).Format("01-02 15:04")
		fmt.Printf("[%s] %s: %s (%s)\n", ts, who, messageText(m), m.Status)
	}
}

func messageText(m chat.Message) string {
	if m.Attachment == nil {
		return m.Text
	}
	file := fmt.Sprintf("📎 %s (%s)", m.Attachment.Name, m.Attachment.Label())
	if m.Text == "" {
		return file
	}
	return m.Text + " " + file
}

func check(err error) {
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func usageError(usage string) {
	fmt.Fprintln(os.Stderr, "usage: "+usage)
	os.Exit(1)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
