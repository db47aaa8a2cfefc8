// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// exportLimit bounds a full export. Far beyond any realistic personal
// history size.
const exportLimit = 100000

// ExportYAML writes recent entries (all, when limit is 0) to
// dataDir/export.yaml and returns the file path.
func (h *History) ExportYAML(ctx context.Context, limit int) (string, error) {
	entries, err := h.exportEntries(ctx, limit)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}

	path := filepath.Join(h.transcripts.dataDir, "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// ExportJSON writes recent entries (all, when limit is 0) to
// dataDir/export.json and returns the file path.
func (h *History) ExportJSON(ctx context.Context, limit int) (string, error) {
	entries, err := h.exportEntries(ctx, limit)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}

	path := filepath.Join(h.transcripts.dataDir, "export.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

func (h *History) exportEntries(ctx context.Context, limit int) ([]Listed, error) {
	if limit <= 0 {
		limit = exportLimit
	}
	entries, err := h.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return entries, nil
}
