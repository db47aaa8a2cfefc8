// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pplx/pkg/types"
)

const transcriptsDir = "transcripts"

// Transcripts renders history entries into self-contained Markdown
// documents under dataDir/transcripts/. Documents are written once at save
// time and removed only by a full history clear.
type Transcripts struct {
	dataDir string
}

// NewTranscripts returns a materializer rooted at dataDir.
func NewTranscripts(cfg types.HistoryConfig) *Transcripts {
	return &Transcripts{dataDir: cfg.DataDir}
}

// Dir returns the transcript documents directory.
func (t *Transcripts) Dir() string {
	return filepath.Join(t.dataDir, transcriptsDir)
}

// Path derives the document location for an entry without touching disk.
// The name combines the entry timestamp and identifier so the document can
// be found again without consulting the store.
func (t *Transcripts) Path(entry types.HistoryEntry) string {
	return filepath.Join(t.Dir(), fmt.Sprintf("%d-%s.md", entry.Timestamp, IdentifierFor(entry)))
}

// Write renders entry into a Markdown document and persists it, creating
// missing directories. Returns the document path. Write failures are
// reported to the caller but the structured row remains the authoritative
// record, so the facade treats them as non-fatal.
func (t *Transcripts) Write(entry types.HistoryEntry) (string, error) {
	if err := os.MkdirAll(t.Dir(), 0o755); err != nil {
		return "", fmt.Errorf("creating transcripts directory: %w", err)
	}

	path := t.Path(entry)
	if err := os.WriteFile(path, []byte(Render(entry)), 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}

// Read loads the document previously written for entry. Returns
// ErrNotFound when no document exists, so callers can fall back to
// rendering from the structured row.
func (t *Transcripts) Read(entry types.HistoryEntry) (string, error) {
	data, err := os.ReadFile(t.Path(entry))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}

// RemoveAll deletes the entire transcript documents directory.
func (t *Transcripts) RemoveAll() error {
	if err := os.RemoveAll(t.Dir()); err != nil {
		return fmt.Errorf("removing transcripts directory: %w", err)
	}
	return nil
}

// Render produces the Markdown document text for an entry: the query as
// title, a metadata block, the response body, a sources section when
// citations exist, and a usage line when token counts exist.
func Render(entry types.HistoryEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", entry.Query)

	when := time.UnixMilli(entry.Timestamp).UTC().Format(time.RFC3339)
	fmt.Fprintf(&b, "- **Date:** %s\n", when)
	fmt.Fprintf(&b, "- **Command:** %s\n", entry.Command)
	fmt.Fprintf(&b, "- **Model:** %s\n", entry.Model)
	fmt.Fprintf(&b, "- **Identifier:** %s\n", IdentifierFor(entry))

	fmt.Fprintf(&b, "\n## Response\n\n%s\n", entry.Response)

	if len(entry.Citations) > 0 {
		b.WriteString("\n## Sources\n\n")
		for i, c := range entry.Citations {
			fmt.Fprintf(&b, "%d. [%s](%s)", i+1, c.Title, c.URL)
			if c.Date != "" {
				fmt.Fprintf(&b, " (%s)", c.Date)
			}
			b.WriteString("\n")
		}
	}

	if entry.TotalTokens != nil {
		fmt.Fprintf(&b, "\n## Usage\n\n%d tokens", *entry.TotalTokens)
		if entry.PromptTokens != nil && entry.CompletionTokens != nil {
			fmt.Fprintf(&b, " (%d prompt + %d completion)",
				*entry.PromptTokens, *entry.CompletionTokens)
		}
		if entry.DurationSeconds != nil {
			fmt.Fprintf(&b, " | %.2fs", *entry.DurationSeconds)
		}
		b.WriteString("\n")
	}

	return b.String()
}
