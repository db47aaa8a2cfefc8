// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"testing"

	"github.com/pdiddy/pplx/pkg/types"
)

func TestIdentifierDeterministic(t *testing.T) {
	entry := types.HistoryEntry{
		Timestamp: 1700000000000,
		Command:   types.CommandSearch,
		Query:     "latest fusion energy results",
	}

	first := IdentifierFor(entry)
	for i := 0; i < 10; i++ {
		if got := IdentifierFor(entry); got != first {
			t.Fatalf("identifier not deterministic: %q vs %q", got, first)
		}
	}
}

func TestIdentifierLength(t *testing.T) {
	entry := types.HistoryEntry{
		Timestamp: 1700000000000,
		Command:   types.CommandAsk,
		Query:     "q",
	}
	id := IdentifierFor(entry)
	if len(id) != identifierLen {
		t.Fatalf("identifier length = %d, want %d", len(id), identifierLen)
	}
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("identifier %q contains non-hex rune %q", id, r)
		}
	}
}

func TestIdentifierIgnoresNonDefiningFields(t *testing.T) {
	base := types.HistoryEntry{
		Timestamp: 1700000000000,
		Command:   types.CommandSearch,
		Query:     "same query",
		Model:     "sonar",
		Response:  "first response",
	}
	other := base
	other.ID = 42
	other.Model = "sonar-pro"
	other.Response = "different response"

	if IdentifierFor(base) != IdentifierFor(other) {
		t.Fatal("identifier should depend only on timestamp, command, and query")
	}
}

func TestIdentifierDiffersAcrossEntries(t *testing.T) {
	base := types.HistoryEntry{
		Timestamp: 1700000000000,
		Command:   types.CommandSearch,
		Query:     "base query",
	}

	variants := map[string]types.HistoryEntry{
		"timestamp": {Timestamp: base.Timestamp + 1, Command: base.Command, Query: base.Query},
		"command":   {Timestamp: base.Timestamp, Command: types.CommandAsk, Query: base.Query},
		"query":     {Timestamp: base.Timestamp, Command: base.Command, Query: "other query"},
	}

	baseID := IdentifierFor(base)
	for name, variant := range variants {
		if IdentifierFor(variant) == baseID {
			t.Errorf("changing %s did not change the identifier", name)
		}
	}
}
