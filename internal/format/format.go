// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders answers, sources, and usage statistics for the
// console.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/pplx/pkg/types"
)

// maxSources caps the number of sources printed under an answer.
const maxSources = 5

const rule = "=================================================="

// Answer renders the answer text between horizontal rules, followed by the
// sources block when citations exist.
func Answer(content string, citations []types.Citation) string {
	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString(content)
	b.WriteString("\n" + rule + "\n")
	if s := Sources(citations); s != "" {
		b.WriteString(s)
	}
	return b.String()
}

// Sources renders a numbered source list: title on one line, indented URL
// on the next. At most maxSources entries are shown. Empty when there are
// no citations.
func Sources(citations []types.Citation) string {
	if len(citations) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n📚 **Sources:**\n")
	for i, c := range citations {
		if i >= maxSources {
			break
		}
		fmt.Fprintf(&b, "[%d] %s\n    %s\n", i+1, c.Title, c.URL)
	}
	return b.String()
}

// Stats renders the token usage and duration line.
func Stats(usage Usage, duration time.Duration) string {
	return fmt.Sprintf("\n📊 Stats: %d tokens (%d prompt + %d completion) | ⏱️  %.2fs",
		usage.TotalTokens, usage.PromptTokens, usage.CompletionTokens,
		duration.Seconds())
}

// Usage mirrors the API token counts for display.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Timestamp renders an epoch-milliseconds timestamp for listings.
func Timestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// Truncate shortens s to max runes, appending an ellipsis marker when
// anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
