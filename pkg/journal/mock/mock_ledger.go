// Package mock implements an in-memory stand-in for the remote ledger. It
// enforces the same account rules the deployed program does: duplicate
// creation is rejected, and update/delete only resolve accounts derived from
// the caller's own identity.
package mock

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/soljournal/journal_sdk_go/internal/devseed"
	"github.com/soljournal/journal_sdk_go/pkg/journal"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Ledger is an in-memory ledger holding the accounts of one program
// deployment. It implements journal.Backend.
type Ledger struct {
	mu        sync.RWMutex
	programID keys.Address
	accounts  map[keys.Address]journal.Entry
	failure   error
}

// Option configures the mock ledger.
type Option func(*Ledger)

// WithFailure starts the ledger in a failing state, equivalent to calling
// SetFailure right after New.
func WithFailure(err error) Option {
	return func(l *Ledger) {
		l.failure = err
	}
}

// New creates an empty mock ledger for the given program deployment.
func New(programID keys.Address, opts ...Option) *Ledger {
	l := &Ledger{
		programID: programID,
		accounts:  make(map[keys.Address]journal.Entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetFailure makes every subsequent call fail with err. Pass nil to restore
// normal operation. Used to exercise transport-failure paths in tests.
func (l *Ledger) SetFailure(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failure = err
}

func (l *Ledger) injected() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.failure
}

// Seed pre-provisions entries, typically decoded via devseed.LoadJournalSeed.
func (l *Ledger) Seed(entries []devseed.JournalSeedEntry) error {
	for _, e := range entries {
		owner, err := keys.ParseAddress(e.Owner)
		if err != nil {
			return fmt.Errorf("mock ledger: seed entry %q: %w", e.Title, err)
		}
		addr, _, err := keys.Derive(e.Title, owner, l.programID)
		if err != nil {
			return fmt.Errorf("mock ledger: seed entry %q: %w", e.Title, err)
		}
		l.mu.Lock()
		l.accounts[addr] = journal.Entry{Title: e.Title, Message: e.Message, Owner: owner}
		l.mu.Unlock()
	}
	return nil
}

// CreateEntry provisions a new entry account. A second create for the same
// (title, owner) derives the same address and is rejected, mirroring the
// on-chain init constraint.
func (l *Ledger) CreateEntry(ctx context.Context, title, message string, owner keys.Address) (string, error) {
	if err := l.callChecks(ctx); err != nil {
		return "", err
	}
	addr, _, err := keys.Derive(title, owner, l.programID)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[addr]; exists {
		return "", fmt.Errorf("mock ledger: account %s already in use", addr)
	}
	l.accounts[addr] = journal.Entry{Title: title, Message: message, Owner: owner}
	return newSignature(), nil
}

// UpdateEntry rewrites the message of an existing entry. A caller who does
// not own the entry derives a different address and finds no account there,
// exactly as on chain.
func (l *Ledger) UpdateEntry(ctx context.Context, title, message string, owner keys.Address) (string, error) {
	if err := l.callChecks(ctx); err != nil {
		return "", err
	}
	addr, _, err := keys.Derive(title, owner, l.programID)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	entry, exists := l.accounts[addr]
	if !exists {
		return "", fmt.Errorf("mock ledger: account %s does not exist", addr)
	}
	entry.Message = message
	l.accounts[addr] = entry
	return newSignature(), nil
}

// DeleteEntry closes an existing entry account.
func (l *Ledger) DeleteEntry(ctx context.Context, title string, owner keys.Address) (string, error) {
	if err := l.callChecks(ctx); err != nil {
		return "", err
	}
	addr, _, err := keys.Derive(title, owner, l.programID)
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[addr]; !exists {
		return "", fmt.Errorf("mock ledger: account %s does not exist", addr)
	}
	delete(l.accounts, addr)
	return newSignature(), nil
}

// FetchAll returns every entry account. Map iteration order stands in for the
// remote program's lack of ordering guarantees.
func (l *Ledger) FetchAll(ctx context.Context, programID keys.Address) ([]journal.EntryAccount, error) {
	if err := l.callChecks(ctx); err != nil {
		return nil, err
	}
	if programID != l.programID {
		return nil, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	accounts := make([]journal.EntryAccount, 0, len(l.accounts))
	for addr, entry := range l.accounts {
		accounts = append(accounts, journal.EntryAccount{Address: addr, Entry: entry})
	}
	return accounts, nil
}

// FetchOne returns the entry at address, or nil when absent.
func (l *Ledger) FetchOne(ctx context.Context, address keys.Address) (*journal.EntryAccount, error) {
	if err := l.callChecks(ctx); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, exists := l.accounts[address]
	if !exists {
		return nil, nil
	}
	return &journal.EntryAccount{Address: address, Entry: entry}, nil
}

// AccountInfo reports the program account itself as an executable account and
// entry accounts as program-owned data accounts. Unknown addresses yield nil.
func (l *Ledger) AccountInfo(ctx context.Context, address keys.Address) (*journal.AccountInfo, error) {
	if err := l.callChecks(ctx); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if address == l.programID {
		return &journal.AccountInfo{Owner: l.programID, Executable: true, Lamports: 1}, nil
	}
	if _, exists := l.accounts[address]; exists {
		return &journal.AccountInfo{Owner: l.programID, Lamports: 1}, nil
	}
	return nil, nil
}

func (l *Ledger) callChecks(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.injected()
}

// newSignature fabricates a ledger-shaped transaction signature: base58 over
// 64 random bytes.
func newSignature() string {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return base58.Encode(buf[:])
}
