// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, args := parseArgs(nil)
	assert.Equal(t, CmdTUI, cmd)
	assert.Empty(t, args.ServerURL)
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"chat"}, CmdChat},
		{[]string{"repl"}, CmdChat},
		{[]string{"status"}, CmdStatus},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(tt.argv)
		assert.Equal(t, tt.want, cmd, "argv %v", tt.argv)
	}
}

func TestParseFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"chat", "--server", "http://10.0.0.2:9999", "-m", "study", "-q"})
	assert.Equal(t, CmdChat, cmd)
	assert.Equal(t, "http://10.0.0.2:9999", args.ServerURL)
	assert.Equal(t, "study", args.Mode)
	assert.True(t, args.Quiet)
}

func TestParseEqualsFormFlags(t *testing.T) {
	_, args := parseArgs([]string{"status", "--server=http://localhost:8080", "--mode=image"})
	assert.Equal(t, "http://localhost:8080", args.ServerURL)
	assert.Equal(t, "image", args.Mode)
}

func TestParseFlagBeforeCommandLaunchesTUI(t *testing.T) {
	cmd, args := parseArgs([]string{"--server", "http://localhost:8080"})
	assert.Equal(t, CmdTUI, cmd)
	assert.Equal(t, "http://localhost:8080", args.ServerURL)
}
