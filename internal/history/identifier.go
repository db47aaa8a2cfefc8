// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists query/response exchanges: one SQLite row per
// exchange plus a rendered transcript document on disk. The History facade
// is the only type callers outside this package should use directly.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pdiddy/pplx/pkg/types"
)

// identifierLen is the display length of an entry identifier in hex chars.
const identifierLen = 8

// IdentifierFor derives the short lookup identifier for an entry. It is a
// pure function of the entry's timestamp, command, and query, so callers
// can recompute it at read time without consulting the store.
func IdentifierFor(entry types.HistoryEntry) string {
	return identifier(entry.Timestamp, entry.Command, entry.Query)
}

func identifier(timestamp int64, command types.Command, query string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", timestamp, command, query)))
	return hex.EncodeToString(sum[:])[:identifierLen]
}
