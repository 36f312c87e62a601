package journal

import (
	"fmt"
	"strings"
)

// Schema is the program interface description the binder loads verbatim. It
// is an immutable external contract shared with the deployed program; the SDK
// validates its shape at bind time and uses its method names on the wire.
type Schema struct {
	CreateMethod string
	UpdateMethod string
	DeleteMethod string
	// AccountType names the entry account type exposed by the program.
	AccountType string
	// AccountFields lists the fields of the entry account payload.
	AccountFields []string
}

// DefaultSchema returns the journal program's published interface.
func DefaultSchema() Schema {
	return Schema{
		CreateMethod:  "createJournalEntry",
		UpdateMethod:  "updateJournalEntry",
		DeleteMethod:  "deleteJournalEntry",
		AccountType:   "journalEntryState",
		AccountFields: []string{"title", "message", "owner"},
	}
}

// Validate checks the schema is structurally usable.
func (s Schema) Validate() error {
	for name, v := range map[string]string{
		"create method": s.CreateMethod,
		"update method": s.UpdateMethod,
		"delete method": s.DeleteMethod,
		"account type":  s.AccountType,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("journal: schema is missing %s", name)
		}
	}
	if len(s.AccountFields) == 0 {
		return fmt.Errorf("journal: schema declares no account fields")
	}
	return nil
}
