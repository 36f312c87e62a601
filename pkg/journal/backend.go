package journal

import (
	"context"
	"fmt"

	"github.com/soljournal/journal_sdk_go/internal/rpcx"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

// Backend abstracts the remote ledger surface the client needs: one method
// per program operation plus the account-reading calls. Implementations are
// the JSON-RPC backend below and the in-memory mock ledger.
type Backend interface {
	CreateEntry(ctx context.Context, title, message string, owner keys.Address) (string, error)
	UpdateEntry(ctx context.Context, title, message string, owner keys.Address) (string, error)
	DeleteEntry(ctx context.Context, title string, owner keys.Address) (string, error)

	FetchAll(ctx context.Context, programID keys.Address) ([]EntryAccount, error)
	FetchOne(ctx context.Context, address keys.Address) (*EntryAccount, error)
	AccountInfo(ctx context.Context, address keys.Address) (*AccountInfo, error)
}

// rpcBackend talks to a ledger gateway over JSON-RPC. Method names for the
// write path come from the program schema; reads use the gateway's generic
// account endpoints with parsed account payloads.
type rpcBackend struct {
	client *rpcx.Client
	schema Schema
}

type mutationParams struct {
	Title   string       `json:"title"`
	Message string       `json:"message,omitempty"`
	Owner   keys.Address `json:"owner"`
}

// Mutations go through CallOnce: a submitted transaction must settle exactly
// once, retrying could double-apply a create or delete.
func (b *rpcBackend) CreateEntry(ctx context.Context, title, message string, owner keys.Address) (string, error) {
	var signature string
	err := b.client.CallOnce(ctx, b.schema.CreateMethod, mutationParams{Title: title, Message: message, Owner: owner}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

func (b *rpcBackend) UpdateEntry(ctx context.Context, title, message string, owner keys.Address) (string, error) {
	var signature string
	err := b.client.CallOnce(ctx, b.schema.UpdateMethod, mutationParams{Title: title, Message: message, Owner: owner}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

func (b *rpcBackend) DeleteEntry(ctx context.Context, title string, owner keys.Address) (string, error) {
	var signature string
	err := b.client.CallOnce(ctx, b.schema.DeleteMethod, mutationParams{Title: title, Owner: owner}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

type programAccountsParams struct {
	ProgramID   keys.Address `json:"programId"`
	AccountType string       `json:"accountType"`
}

func (b *rpcBackend) FetchAll(ctx context.Context, programID keys.Address) ([]EntryAccount, error) {
	var accounts []EntryAccount
	err := b.client.Call(ctx, "getProgramAccounts", programAccountsParams{
		ProgramID:   programID,
		AccountType: b.schema.AccountType,
	}, &accounts)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

type accountParams struct {
	Address keys.Address `json:"address"`
}

func (b *rpcBackend) FetchOne(ctx context.Context, address keys.Address) (*EntryAccount, error) {
	var entry *Entry
	if err := b.client.Call(ctx, "getAccount", accountParams{Address: address}, &entry); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return &EntryAccount{Address: address, Entry: *entry}, nil
}

func (b *rpcBackend) AccountInfo(ctx context.Context, address keys.Address) (*AccountInfo, error) {
	var info *AccountInfo
	if err := b.client.Call(ctx, "getAccountInfo", accountParams{Address: address}, &info); err != nil {
		return nil, fmt.Errorf("journal: fetch account info: %w", err)
	}
	return info, nil
}
