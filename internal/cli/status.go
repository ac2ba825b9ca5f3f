// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for parley.
//
// Command: status
// Short:   Check backend reachability and summarize conversations
//
// Examples:
//   parley status                 Show backend status
//   parley status --server URL    Check a specific backend
//
// Output Fields:
//   Backend        Base URL and reachability
//   Conversations  Count on the backend, newest title and date
//   Config         Config file path (if present)
//   History        Prompt history status and entry count
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/parley/internal/config"
	"github.com/morganforge/parley/internal/gateway"
	"github.com/morganforge/parley/internal/history"
	"github.com/morganforge/parley/internal/ui/styles"
	"github.com/morganforge/parley/internal/util"
)

var (
	statusOKStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	statusBadStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	statusLabelStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary)
)

// HandleStatus checks the backend and prints a short report.
func HandleStatus(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if args.ServerURL != "" {
		cfg.Server.URL = args.ServerURL
	}

	gw := gateway.NewClientWithConfig(&gateway.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Server.Timeout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout())
	defer cancel()

	fmt.Println(statusLabelStyle.Render("Backend: ") + cfg.Server.URL)
	if err := gw.CheckReachable(ctx); err != nil {
		fmt.Println(statusLabelStyle.Render("State:   ") + statusBadStyle.Render("unreachable"))
		if args.Verbose {
			fmt.Println(statusLabelStyle.Render("Detail:  ") + err.Error())
		}
		os.Exit(1)
	}
	fmt.Println(statusLabelStyle.Render("State:   ") + statusOKStyle.Render("reachable"))

	conversations, err := gw.ListConversations(ctx)
	if err != nil {
		fmt.Println(statusLabelStyle.Render("Chats:   ") + statusBadStyle.Render("list failed: "+err.Error()))
	} else {
		line := fmt.Sprintf("%d", len(conversations))
		if len(conversations) > 0 {
			newest := conversations[len(conversations)-1]
			line += fmt.Sprintf(" (newest: %s, %s)",
				util.TruncateRunes(newest.DisplayTitle(), 32),
				util.FormatDate(newest.CreatedAt))
		}
		fmt.Println(statusLabelStyle.Render("Chats:   ") + line)
	}

	if path, err := config.ConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			fmt.Println(statusLabelStyle.Render("Config:  ") + path)
		} else {
			fmt.Println(statusLabelStyle.Render("Config:  ") + "defaults (no file)")
		}
	}

	printHistoryStatus(ctx, cfg)
}

func printHistoryStatus(ctx context.Context, cfg *config.Config) {
	if !cfg.History.Enabled {
		fmt.Println(statusLabelStyle.Render("History: ") + "disabled")
		return
	}
	path, err := config.HistoryPath()
	if err != nil {
		return
	}
	store, err := history.Open(path, cfg.History.MaxEntries)
	if err != nil {
		fmt.Println(statusLabelStyle.Render("History: ") + statusBadStyle.Render("unavailable"))
		return
	}
	defer store.Close()

	if n, err := store.Count(ctx); err == nil {
		fmt.Println(statusLabelStyle.Render("History: ") + fmt.Sprintf("%d prompts", n))
	}
}
