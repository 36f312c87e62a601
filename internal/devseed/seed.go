// Package devseed loads JSON seed files used to pre-populate the mock ledger
// in sandbox and mock runtime modes.
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// JournalSeedEntry is one pre-provisioned journal entry.
type JournalSeedEntry struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	// Owner is the base58 identity the entry belongs to.
	Owner string `json:"owner"`
}

// LoadJournalSeed reads a JSON array of seed entries from path.
func LoadJournalSeed(path string) ([]JournalSeedEntry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("devseed: seed path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read seed file: %w", err)
	}
	var entries []JournalSeedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("devseed: decode seed file: %w", err)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("devseed: seed entry %d missing title", i)
		}
		if strings.TrimSpace(e.Owner) == "" {
			return nil, fmt.Errorf("devseed: seed entry %d missing owner", i)
		}
	}
	return entries, nil
}
