package journal

import (
	"errors"

	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Entry is a journal record as stored by the remote program. Title is the
// natural key and never changes once the entry exists; Owner is set at
// creation and never reassigned. This layer only reflects the last fetched
// snapshot, it never fabricates or locally mutates authoritative state.
type Entry struct {
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Owner   keys.Address `json:"owner"`
}

// EntryAccount pairs an entry with the derived address it lives at.
type EntryAccount struct {
	Address keys.Address `json:"pubkey"`
	Entry   Entry        `json:"account"`
}

// AccountInfo describes a raw ledger account. It is used to probe whether the
// program itself is provisioned on the connected network.
type AccountInfo struct {
	Owner      keys.Address `json:"owner"`
	Lamports   uint64       `json:"lamports"`
	Executable bool         `json:"executable"`
}

// Receipt is returned by a settled mutation.
type Receipt struct {
	// Signature is the transaction identifier assigned by the ledger.
	Signature string
	// Address is the derived entry address, computed client-side for
	// traceability. The remote program re-derives it internally; this value
	// never gates the call.
	Address keys.Address
	// InvocationID correlates the mutation's log lines and notifications.
	InvocationID string
}

var (
	// ErrNotBound is returned by mutations when no bound client is available.
	ErrNotBound = errors.New("journal: program not initialized")
	// ErrNoIdentity is returned by mutations when the provider carries no
	// signing identity.
	ErrNoIdentity = errors.New("journal: signing identity is required")
	// ErrMutationPending rejects re-submission while a mutation of the same
	// kind is in flight.
	ErrMutationPending = errors.New("journal: mutation already pending")
)
