package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"

	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Op names a mutation kind. Each kind has its own idle/pending cycle.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutations is the write surface. Each operation is a single attempt against
// the remote program: no internal retry, no optimistic cache writes. On
// success it refreshes the dependent read queries and notifies the sink; on
// failure the error is surfaced verbatim, the cache untouched.
//
// Delete is destructive on the ledger; obtaining explicit user confirmation
// before calling it is the consumer's contract, not enforced here.
type Mutations struct {
	client   *Client
	queries  *Queries
	notifier Notifier

	mu      sync.Mutex
	pending map[Op]bool
}

// NewMutations binds the write surface. A nil notifier falls back to
// LogNotifier; queries may be nil when no cache is in play.
func NewMutations(client *Client, queries *Queries, notifier Notifier) *Mutations {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Mutations{
		client:   client,
		queries:  queries,
		notifier: notifier,
		pending:  make(map[Op]bool),
	}
}

// Pending reports whether a mutation of the given kind is in flight. UIs use
// it to disable their trigger until settlement.
func (m *Mutations) Pending(op Op) bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[op]
}

// Create submits a new entry. Fails synchronously with ErrNotBound before any
// network call when no client is bound; a duplicate (title, owner) is the
// remote program's rejection, not pre-checked here.
func (m *Mutations) Create(ctx context.Context, title, message string) (*Receipt, error) {
	return m.run(ctx, OpCreate, title, func(callCtx context.Context) (string, error) {
		return m.client.CreateEntry(callCtx, title, message)
	}, func(settleCtx context.Context, addr keys.Address) {
		m.queries.RefreshAll(settleCtx)
	})
}

// Update rewrites the message of an existing entry. The remote program
// rejects updates to non-existent or non-owned entries.
func (m *Mutations) Update(ctx context.Context, title, message string) (*Receipt, error) {
	return m.run(ctx, OpUpdate, title, func(callCtx context.Context) (string, error) {
		return m.client.UpdateEntry(callCtx, title, message)
	}, func(settleCtx context.Context, addr keys.Address) {
		m.queries.RefreshAll(settleCtx)
		if !addr.IsZero() {
			m.queries.RefreshEntry(settleCtx, addr)
		}
	})
}

// Delete removes the entry identified by title under the bound identity.
func (m *Mutations) Delete(ctx context.Context, title string) (*Receipt, error) {
	return m.run(ctx, OpDelete, title, func(callCtx context.Context) (string, error) {
		return m.client.DeleteEntry(callCtx, title)
	}, func(settleCtx context.Context, addr keys.Address) {
		m.queries.RefreshAll(settleCtx)
		if !addr.IsZero() {
			m.queries.InvalidateEntry(addr)
		}
	})
}

func (m *Mutations) run(ctx context.Context, op Op, title string, call func(context.Context) (string, error), invalidate func(context.Context, keys.Address)) (*Receipt, error) {
	if m == nil || m.client == nil {
		return nil, ErrNotBound
	}
	if err := m.begin(op); err != nil {
		return nil, err
	}
	defer m.end(op)

	id := ulid.Make().String()

	// Advisory derivation: the remote program re-derives the address from the
	// same seeds, so this value is logged for traceability and carried on the
	// receipt, never sent with the call.
	var addr keys.Address
	if derived, err := m.client.DeriveAddress(title); err == nil {
		addr = derived
		glog.V(1).Infof("journal: %s %s targets %s (title %q)", op, id, addr, title)
	}

	// Once submitted, a write settles even if the caller has gone away; the
	// settlement still has to drive cache invalidation.
	callCtx := context.WithoutCancel(ctx)
	signature, err := call(callCtx)
	if err != nil {
		m.notifier.NotifyError(fmt.Sprintf("Failed to %s journal entry: %v", op, err))
		return nil, err
	}

	m.notifier.NotifySuccess(signature)
	if m.queries != nil {
		invalidate(callCtx, addr)
	}
	return &Receipt{Signature: signature, Address: addr, InvocationID: id}, nil
}

func (m *Mutations) begin(op Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending[op] {
		return ErrMutationPending
	}
	m.pending[op] = true
	return nil
}

func (m *Mutations) end(op Op) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, op)
}
