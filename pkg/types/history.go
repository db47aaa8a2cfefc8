// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pplx CLI: the
// query commands, the Perplexity API surface, and the local history store.
package types

// Command categorizes a query by the subcommand that produced it.
type Command string

const (
	CommandSearch   Command = "search"
	CommandResearch Command = "research"
	CommandAcademic Command = "academic"
	CommandAsk      Command = "ask"
	CommandCode     Command = "code"
)

// Commands lists every valid query category.
var Commands = []Command{
	CommandSearch, CommandResearch, CommandAcademic, CommandAsk, CommandCode,
}

// Valid reports whether c is a known query category.
func (c Command) Valid() bool {
	for _, known := range Commands {
		if c == known {
			return true
		}
	}
	return false
}

// Citation is one source reference attached to an answer.
type Citation struct {
	// Title is the source page title.
	Title string `json:"title" yaml:"title"`

	// URL is the source location.
	URL string `json:"url" yaml:"url"`

	// Date is the source publication date when the API reports one.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
}

// ExchangeRecord is one completed query/response exchange as handed to the
// history layer by the CLI. The history facade fills in the storage id,
// timestamp, and identifier.
type ExchangeRecord struct {
	// Command is the query category that produced this exchange.
	Command Command `json:"command" yaml:"command"`

	// Query is the user's raw input text.
	Query string `json:"query" yaml:"query"`

	// Model is the model identifier that produced the response.
	Model string `json:"model" yaml:"model"`

	// Response is the full answer text.
	Response string `json:"response" yaml:"response"`

	// Citations lists the answer's sources in API order, or nil.
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`

	// PromptTokens, CompletionTokens, and TotalTokens are the usage counts
	// reported by the API. Nil when the call did not report usage.
	PromptTokens     *int64 `json:"prompt_tokens,omitempty" yaml:"prompt_tokens,omitempty"`
	CompletionTokens *int64 `json:"completion_tokens,omitempty" yaml:"completion_tokens,omitempty"`
	TotalTokens      *int64 `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`

	// DurationSeconds is the wall-clock request duration. Nil when unknown.
	DurationSeconds *float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

// HistoryEntry is one persisted query/response exchange. All fields are
// immutable after insert.
type HistoryEntry struct {
	// ID is the sequential storage key assigned on insert. Internal;
	// user-facing lookups go through the derived identifier instead.
	ID int64 `json:"id" yaml:"id"`

	// Timestamp is the creation time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`

	Command Command `json:"command" yaml:"command"`
	Query   string  `json:"query" yaml:"query"`
	Model   string  `json:"model" yaml:"model"`

	Response  string     `json:"response" yaml:"response"`
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`

	PromptTokens     *int64 `json:"prompt_tokens,omitempty" yaml:"prompt_tokens,omitempty"`
	CompletionTokens *int64 `json:"completion_tokens,omitempty" yaml:"completion_tokens,omitempty"`
	TotalTokens      *int64 `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`

	DurationSeconds *float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}
