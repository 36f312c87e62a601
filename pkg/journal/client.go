package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Client is a bound program client: a method-call surface for each program
// operation plus the account-reading surface for the entry account type.
// All methods are nil-safe; a nil Client reports ErrNotBound.
type Client struct {
	backend   Backend
	schema    Schema
	programID keys.Address
	cluster   string
	identity  keys.Address
}

// ProgramID returns the deployed program instance this client targets.
func (c *Client) ProgramID() keys.Address {
	if c == nil {
		return keys.Zero
	}
	return c.programID
}

// Cluster returns the network label the client is bound to.
func (c *Client) Cluster() string {
	if c == nil {
		return ""
	}
	return c.cluster
}

// Identity returns the bound signing identity, if any.
func (c *Client) Identity() (keys.Address, bool) {
	if c == nil || c.identity.IsZero() {
		return keys.Zero, false
	}
	return c.identity, true
}

// CreateEntry submits a create transaction for a new entry owned by the bound
// identity and returns the ledger signature. A single attempt: remote
// rejections (including duplicate creation) come back verbatim.
func (c *Client) CreateEntry(ctx context.Context, title, message string) (string, error) {
	owner, err := c.writeChecks(title)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("journal: message is required")
	}
	return c.backend.CreateEntry(ctx, title, message, owner)
}

// UpdateEntry submits an update for the entry identified by title under the
// bound identity. The remote program rejects updates to non-existent or
// non-owned entries.
func (c *Client) UpdateEntry(ctx context.Context, title, message string) (string, error) {
	owner, err := c.writeChecks(title)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("journal: message is required")
	}
	return c.backend.UpdateEntry(ctx, title, message, owner)
}

// DeleteEntry submits a delete for the entry identified by title under the
// bound identity.
func (c *Client) DeleteEntry(ctx context.Context, title string) (string, error) {
	owner, err := c.writeChecks(title)
	if err != nil {
		return "", err
	}
	return c.backend.DeleteEntry(ctx, title, owner)
}

// FetchAll reads every entry account owned by the program. No ordering is
// guaranteed; the remote program provides none and this layer imposes none.
func (c *Client) FetchAll(ctx context.Context) ([]EntryAccount, error) {
	if c == nil || c.backend == nil {
		return nil, ErrNotBound
	}
	return c.backend.FetchAll(ctx, c.programID)
}

// FetchOne reads a single entry account by derived address. A missing account
// yields (nil, nil).
func (c *Client) FetchOne(ctx context.Context, address keys.Address) (*EntryAccount, error) {
	if c == nil || c.backend == nil {
		return nil, ErrNotBound
	}
	return c.backend.FetchOne(ctx, address)
}

// ProgramAccount reads the raw account info of the program itself, used to
// tell "program not deployed on this network" apart from read failures.
func (c *Client) ProgramAccount(ctx context.Context) (*AccountInfo, error) {
	if c == nil || c.backend == nil {
		return nil, ErrNotBound
	}
	return c.backend.AccountInfo(ctx, c.programID)
}

// DeriveAddress computes the storage address for a title under the bound
// identity. Advisory: the remote program re-derives it internally.
func (c *Client) DeriveAddress(title string) (keys.Address, error) {
	if c == nil {
		return keys.Zero, ErrNotBound
	}
	owner, ok := c.Identity()
	if !ok {
		return keys.Zero, ErrNoIdentity
	}
	addr, _, err := keys.Derive(title, owner, c.programID)
	return addr, err
}

func (c *Client) writeChecks(title string) (keys.Address, error) {
	if c == nil || c.backend == nil {
		return keys.Zero, ErrNotBound
	}
	owner, ok := c.Identity()
	if !ok {
		return keys.Zero, ErrNoIdentity
	}
	if strings.TrimSpace(title) == "" {
		return keys.Zero, fmt.Errorf("journal: title is required")
	}
	return owner, nil
}
