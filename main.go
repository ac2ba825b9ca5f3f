// parley - a terminal client for a conversational chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/parley/internal/cli"
	"github.com/morganforge/parley/internal/config"
	"github.com/morganforge/parley/internal/exchange"
	"github.com/morganforge/parley/internal/gateway"
	"github.com/morganforge/parley/internal/history"
	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/ui/chat"
	"github.com/morganforge/parley/internal/ui/styles"
	"github.com/morganforge/parley/internal/viewcache"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	}
}

// runTUI assembles the full-screen interface and blocks until it exits.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
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
			// History is optional; the TUI runs without it.
			hist, _ = history.Open(path, cfg.History.MaxEntries)
		}
	}
	if hist != nil {
		defer hist.Close()
	}

	// The alternate screen makes stderr useless; opt-in file logging only.
	if os.Getenv("PARLEY_DEBUG") != "" {
		if dir, err := config.ConfigDir(); err == nil {
			if f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "parley"); err == nil {
				defer f.Close()
			}
		}
	}

	theme := styles.Detect(cfg.UI.Theme)
	model := chat.New(ctrl, cache, hist, cfg, theme)

	p := tea.NewProgram(model, tea.WithAltScreen())

	watcher := startConfigWatcher(p)
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startConfigWatcher feeds edited config files into the running program.
// Watching is best effort; the TUI works without it.
func startConfigWatcher(p *tea.Program) *config.Watcher {
	path, err := config.ConfigPath()
	if err != nil {
		return nil
	}
	watcher, err := config.NewWatcher(path, 500*time.Millisecond, func(cfg *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Config: cfg})
	})
	if err != nil {
		return nil
	}
	if err := watcher.Watch(); err != nil {
		watcher.Close()
		return nil
	}
	return watcher
}
