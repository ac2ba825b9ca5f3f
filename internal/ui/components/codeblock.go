// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// HighlightCodeBlocks finds fenced code blocks in content and syntax
// highlights them for the terminal. Used when full markdown rendering is
// disabled in configuration; prose passes through untouched.
func HighlightCodeBlocks(content string, dark bool) string {
	style := "github"
	if dark {
		style = "monokai"
	}

	var out strings.Builder
	lines := strings.Split(content, "\n")

	inBlock := false
	lang := ""
	var block []string

	flush := func() {
		code := strings.Join(block, "\n")
		var hl strings.Builder
		if err := quick.Highlight(&hl, code, lang, "terminal256", style); err != nil {
			out.WriteString(code)
		} else {
			out.WriteString(hl.String())
		}
		if !strings.HasSuffix(out.String(), "\n") {
			out.WriteString("\n")
		}
		block = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				flush()
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
			}
			inBlock = !inBlock
			continue
		}
		if inBlock {
			block = append(block, line)
			continue
		}
		out.WriteString(line)
		out.WriteString("\n")
	}

	// An unterminated fence still renders.
	if inBlock && len(block) > 0 {
		flush()
	}

	return strings.TrimSuffix(out.String(), "\n")
}
