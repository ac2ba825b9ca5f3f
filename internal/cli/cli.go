// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for parley.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool

	// Overrides
	ServerURL string // --server
	Mode      string // --mode

	// Leftover positional arguments
	Rest []string
}

// Parse reads os.Args and returns the command plus its arguments.
// No arguments launches the TUI.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(argv []string) (Command, Args) {
	cmd := CmdTUI
	args := Args{}

	i := 0
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		switch argv[0] {
		case "chat", "repl":
			cmd = CmdChat
		case "status":
			cmd = CmdStatus
		case "version", "--version", "-V":
			return CmdVersion, args
		case "help", "--help", "-h":
			return CmdHelp, args
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", argv[0])
			return CmdHelp, args
		}
		i = 1
	}

	for ; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--server", "-s":
			if i+1 < len(argv) {
				i++
				args.ServerURL = argv[i]
			}
		case "--mode", "-m":
			if i+1 < len(argv) {
				i++
				args.Mode = argv[i]
			}
		case "--help", "-h":
			return CmdHelp, args
		case "--version", "-V":
			return CmdVersion, args
		default:
			if strings.HasPrefix(arg, "--server=") {
				args.ServerURL = strings.TrimPrefix(arg, "--server=")
				continue
			}
			if strings.HasPrefix(arg, "--mode=") {
				args.Mode = strings.TrimPrefix(arg, "--mode=")
				continue
			}
			args.Rest = append(args.Rest, arg)
		}
	}

	return cmd, args
}

// HandleVersion prints version information.
func HandleVersion(_ Args) {
	fmt.Printf("parley %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// HandleHelp prints usage.
func HandleHelp(_ Args) {
	fmt.Print(`parley - terminal client for a conversational chat backend

Usage:
  parley              Launch the full-screen interface
  parley chat         Start a plain-terminal chat REPL
  parley status       Check backend reachability and list conversations
  parley version      Print version information
  parley help         Show this help

Flags:
  -s, --server URL    Backend base URL (overrides config)
  -m, --mode NAME     Starting chat mode: default, image, calculation, study
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output

Interactive commands (during chat):
  /mode [name]        Show or switch chat mode
  /list               List conversations on the backend
  /new                Start a new conversation
  /clear              Clear the current conversation
  /history            Show recent prompts
  /quit               Exit chat

Configuration is read from ~/.parley/config.toml. The server URL can
also be set with the PARLEY_SERVER_URL environment variable.
`)
}
