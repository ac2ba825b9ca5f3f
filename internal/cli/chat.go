// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the parley CLI.
//
// Handles the "parley chat" command: a plain-terminal REPL against the
// same controller the TUI uses, for sessions where a full-screen
// interface is unwanted (ssh, screen readers, piping).
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /mode [name]        Show or switch chat mode
//   /list, /l           List conversations on the backend
//   /new, /n            Start a new conversation
//   /clear, /c          Clear the current conversation
//   /history            Show recent prompts
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/morganforge/parley/internal/config"
	"github.com/morganforge/parley/internal/exchange"
	"github.com/morganforge/parley/internal/gateway"
	"github.com/morganforge/parley/internal/history"
	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/ui/styles"
	"github.com/morganforge/parley/internal/util"
	"github.com/morganforge/parley/internal/viewcache"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// INPUT
// =============================================================================

// replInput wraps liner with persistent history in the config directory.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &replInput{
		line:        line,
		historyFile: filepath.Join(dir, "repl_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

func (in *replInput) read(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

func (in *replInput) close() {
	if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		in.line.WriteHistory(f)
		f.Close()
	}
	in.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// replSession holds the collaborators for an interactive session.
type replSession struct {
	cfg   *config.Config
	gw    *gateway.Client
	cache *viewcache.Cache
	ctrl  *exchange.Controller
	hist  *history.Store
	input *replInput
	md    *glamour.TermRenderer
	quiet bool
}

// HandleChat runs the plain-terminal chat REPL.
func HandleChat(args Args) {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "Error: chat requires an interactive terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if args.ServerURL != "" {
		cfg.Server.URL = args.ServerURL
	}

	gw := gateway.NewClientWithConfig(&gateway.ClientConfig{
		BaseURL:     cfg.Server.URL,
		Timeout:     cfg.Server.Timeout(),
		SendTimeout: cfg.Server.SendTimeout(),
	})
	cache := viewcache.New(gw)
	ctrl := exchange.New(gw, cache)

	if args.Mode != "" {
		ctrl.SetMode(mode.Parse(args.Mode))
	} else {
		ctrl.SetMode(mode.Parse(cfg.DefaultMode))
	}

	var hist *history.Store
	if cfg.History.Enabled {
		if path, err := config.HistoryPath(); err == nil {
			hist, _ = history.Open(path, cfg.History.MaxEntries)
		}
	}

	s := &replSession{
		cfg:   cfg,
		gw:    gw,
		cache: cache,
		ctrl:  ctrl,
		hist:  hist,
		input: newReplInput(),
		quiet: args.Quiet,
	}
	defer s.shutdown()

	s.printWelcome()
	s.loop()
}

func (s *replSession) shutdown() {
	s.input.close()
	if s.hist != nil {
		s.hist.Close()
	}
}

func (s *replSession) printWelcome() {
	if s.quiet {
		return
	}
	fmt.Println(welcomeStyle.Render("parley chat"))
	fmt.Println(infoStyle.Render(fmt.Sprintf("Backend: %s · Mode: %s", s.cfg.Server.URL, mode.LabelFor(s.ctrl.Mode()))))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.Timeout())
	defer cancel()
	if err := s.gw.CheckReachable(ctx); err != nil {
		fmt.Println(warningStyle.Render("Warning: backend is not reachable; sends will fail until it is."))
		fmt.Println()
	}
}

// loop reads input until /quit or EOF.
func (s *replSession) loop() {
	for {
		text, err := s.input.read(promptStyle.Render("> "))
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil { // io.EOF on Ctrl+D
			fmt.Println()
			return
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			if s.runCommand(trimmed) {
				return
			}
			continue
		}

		s.send(trimmed)
	}
}

// send pushes one message through the controller and prints the reply.
func (s *replSession) send(text string) {
	result, err := s.ctrl.Submit(context.Background(), text)
	if err != nil {
		fmt.Println(warningStyle.Render("Send failed: " + err.Error()))
		s.ctrl.Acknowledge()
		return
	}

	if result.Conversation != nil && !s.quiet {
		fmt.Println(infoStyle.Render("Started conversation: " + result.Conversation.DisplayTitle()))
	}

	if s.hist != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.Timeout())
		_ = s.hist.Add(ctx, text, s.ctrl.Mode().String())
		cancel()
	}

	fmt.Println()
	fmt.Println(s.renderReply(result.Exchange.AIMessage.Content))
	fmt.Println()
}

// renderReply renders assistant markdown when stdout supports it.
func (s *replSession) renderReply(content string) string {
	if !ColorsEnabled() || !s.cfg.UI.Markdown {
		return content
	}
	if s.md == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(TerminalWidth()-2),
		)
		if err != nil {
			return content
		}
		s.md = r
	}
	out, err := s.md.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// runCommand executes a slash command. Returns true when the REPL should
// exit.
func (s *replSession) runCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		s.printHelp()

	case "/mode":
		if len(parts) < 2 {
			fmt.Println(infoStyle.Render("Mode: " + mode.LabelFor(s.ctrl.Mode())))
			fmt.Println(infoStyle.Render("Available: " + strings.Join(modeNames(), ", ")))
			break
		}
		m := mode.Parse(parts[1])
		if !m.IsKnown() {
			fmt.Println(warningStyle.Render("Unrecognized mode " + m.String() + "; it will be shown as " + mode.LabelFor(m)))
		}
		s.ctrl.SetMode(m)
		fmt.Println(infoStyle.Render("Mode: " + mode.LabelFor(m)))

	case "/list", "/l":
		s.listConversations()

	case "/new", "/n":
		s.ctrl.NewChat()
		fmt.Println(infoStyle.Render("Next message starts a new conversation."))

	case "/clear", "/c":
		if err := s.ctrl.Clear(context.Background()); err != nil {
			fmt.Println(warningStyle.Render("Clear failed: " + err.Error()))
			break
		}
		fmt.Println(infoStyle.Render("Conversation cleared."))

	case "/history":
		s.printHistory()

	default:
		fmt.Println(warningStyle.Render("Unknown command: " + cmd + " (try /help)"))
	}
	return false
}

func (s *replSession) printHelp() {
	rows := []struct{ cmd, desc string }{
		{"/mode [name]", "Show or switch chat mode"},
		{"/list", "List conversations on the backend"},
		{"/new", "Start a new conversation"},
		{"/clear", "Clear the current conversation"},
		{"/history", "Show recent prompts"},
		{"/quit", "Exit chat"},
	}
	for _, r := range rows {
		fmt.Printf("  %s %s\n", commandStyle.Render(util.PadRight(r.cmd, 14)), infoStyle.Render(r.desc))
	}
}

func (s *replSession) listConversations() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.Timeout())
	defer cancel()

	conversations, err := s.cache.Conversations(ctx)
	if err != nil {
		fmt.Println(warningStyle.Render("List failed: " + err.Error()))
		return
	}
	if len(conversations) == 0 {
		fmt.Println(infoStyle.Render("No conversations yet."))
		return
	}
	width := TerminalWidth()
	for _, conv := range conversations {
		marker := "  "
		if conv.ID == s.ctrl.ConversationID() {
			marker = commandStyle.Render("* ")
		}
		fmt.Printf("%s%s  %s\n",
			marker,
			util.TruncateWidth(conv.DisplayTitle(), width-20),
			infoStyle.Render(util.FormatDate(conv.CreatedAt)))
	}
}

func (s *replSession) printHistory() {
	if s.hist == nil {
		fmt.Println(infoStyle.Render("History is disabled."))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.Timeout())
	defer cancel()

	entries, err := s.hist.Recent(ctx, 20)
	if err != nil || len(entries) == 0 {
		fmt.Println(infoStyle.Render("No history yet."))
		return
	}
	for _, e := range entries {
		fmt.Println("  " + util.TruncateWidth(e.Content, TerminalWidth()-4))
	}
}

func modeNames() []string {
	all := mode.All()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.String()
	}
	return names
}
