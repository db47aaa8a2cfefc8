// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/pplx/pkg/types"
)

// History coordinates the structured store and the transcript
// materializer. It holds no state of its own beyond the two handles; each
// call opens, uses, and releases its resources within that call.
type History struct {
	store       *Store
	transcripts *Transcripts
}

// Open constructs the history facade rooted at cfg.DataDir, creating the
// database and schema as needed. Callers must Close it.
func Open(cfg types.HistoryConfig) (*History, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return &History{
		store:       store,
		transcripts: NewTranscripts(cfg),
	}, nil
}

// Close releases the underlying store.
func (h *History) Close() error {
	return h.store.Close()
}

// now returns the current time in milliseconds since the epoch. Tests
// override it to control entry timestamps.
var now = func() int64 { return time.Now().UnixMilli() }

// Saved is the result of persisting one exchange.
type Saved struct {
	// Entry is the completed entry with its assigned id and timestamp.
	Entry types.HistoryEntry

	// Identifier is the derived lookup key for the entry.
	Identifier string

	// TranscriptPath is the transcript document location. Set even when
	// the transcript write failed, since the path is a pure derivation.
	TranscriptPath string

	// TranscriptErr records a transcript write failure. Non-fatal: the
	// structured row persisted and remains retrievable.
	TranscriptErr error
}

// Save persists a completed exchange: it stamps the current time, inserts
// the structured row, then writes the transcript document best-effort. The
// row insert happens first so a transcript failure never leaves an
// orphaned document without a durable source of truth.
func (h *History) Save(ctx context.Context, rec types.ExchangeRecord) (Saved, error) {
	entry := types.HistoryEntry{
		Timestamp:        now(),
		Command:          rec.Command,
		Query:            rec.Query,
		Model:            rec.Model,
		Response:         rec.Response,
		Citations:        rec.Citations,
		PromptTokens:     rec.PromptTokens,
		CompletionTokens: rec.CompletionTokens,
		TotalTokens:      rec.TotalTokens,
		DurationSeconds:  rec.DurationSeconds,
	}

	id, err := h.store.Insert(ctx, entry)
	if err != nil {
		return Saved{}, err
	}
	entry.ID = id

	saved := Saved{
		Entry:          entry,
		Identifier:     IdentifierFor(entry),
		TranscriptPath: h.transcripts.Path(entry),
	}
	if _, err := h.transcripts.Write(entry); err != nil {
		saved.TranscriptErr = err
	}
	return saved, nil
}

// Listed is a history entry decorated with its derived identifier and
// transcript location.
type Listed struct {
	types.HistoryEntry `yaml:",inline"`

	Identifier     string `json:"identifier" yaml:"identifier"`
	TranscriptPath string `json:"transcript_path" yaml:"transcript_path"`
}

// ListRecent returns at most limit entries, newest first, each decorated
// with its identifier and transcript path.
func (h *History) ListRecent(ctx context.Context, limit int) ([]Listed, error) {
	entries, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return h.decorate(entries), nil
}

// GetByIdentifier resolves one entry by its display identifier. Returns
// ErrNotFound when no entry matches.
func (h *History) GetByIdentifier(ctx context.Context, identifier string) (Listed, error) {
	entry, err := h.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return Listed{}, err
	}
	return Listed{
		HistoryEntry:   entry,
		Identifier:     identifier,
		TranscriptPath: h.transcripts.Path(entry),
	}, nil
}

// Transcript loads the rendered document for an entry, falling back to
// rendering from the structured row when no document exists on disk.
func (h *History) Transcript(entry types.HistoryEntry) string {
	if text, err := h.transcripts.Read(entry); err == nil {
		return text
	}
	return Render(entry)
}

// TranscriptDir returns the transcript documents directory for display.
func (h *History) TranscriptDir() string {
	return h.transcripts.Dir()
}

// Clear deletes every structured row and the entire transcript directory.
// Both steps are attempted even if one fails; failures are reported
// together. Clearing an empty history succeeds.
func (h *History) Clear(ctx context.Context) error {
	var storeErr, fileErr error
	if err := h.store.ClearAll(ctx); err != nil {
		storeErr = fmt.Errorf("clearing history rows: %w", err)
	}
	if err := h.transcripts.RemoveAll(); err != nil {
		fileErr = err
	}
	return errors.Join(storeErr, fileErr)
}

func (h *History) decorate(entries []types.HistoryEntry) []Listed {
	listed := make([]Listed, len(entries))
	for i, entry := range entries {
		listed[i] = Listed{
			HistoryEntry:   entry,
			Identifier:     IdentifierFor(entry),
			TranscriptPath: h.transcripts.Path(entry),
		}
	}
	return listed
}
