package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soljournal/journal_sdk_go/internal/devseed"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

func TestCreateRejectsDuplicateAddress(t *testing.T) {
	pid := keys.NewRandomAddress()
	owner := keys.NewRandomAddress()
	ledger := New(pid)
	ctx := context.Background()

	sig, err := ledger.CreateEntry(ctx, "Day 1", "Hello", owner)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	_, err = ledger.CreateEntry(ctx, "Day 1", "Different message", owner)
	require.Error(t, err)
	assert.ErrorContains(t, err, "already in use")

	// Same title under a different owner derives a different address.
	_, err = ledger.CreateEntry(ctx, "Day 1", "Hello", keys.NewRandomAddress())
	assert.NoError(t, err)
}

func TestUpdateAndDeleteRequireDerivableAccount(t *testing.T) {
	pid := keys.NewRandomAddress()
	owner := keys.NewRandomAddress()
	stranger := keys.NewRandomAddress()
	ledger := New(pid)
	ctx := context.Background()

	_, err := ledger.CreateEntry(ctx, "Day 1", "Hello", owner)
	require.NoError(t, err)

	_, err = ledger.UpdateEntry(ctx, "Day 1", "Hijacked", stranger)
	assert.ErrorContains(t, err, "does not exist")
	_, err = ledger.DeleteEntry(ctx, "Day 1", stranger)
	assert.ErrorContains(t, err, "does not exist")

	_, err = ledger.UpdateEntry(ctx, "Day 1", "Hello again", owner)
	require.NoError(t, err)

	addr, _, err := keys.Derive("Day 1", owner, pid)
	require.NoError(t, err)
	account, err := ledger.FetchOne(ctx, addr)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "Hello again", account.Entry.Message)

	_, err = ledger.DeleteEntry(ctx, "Day 1", owner)
	require.NoError(t, err)
	account, err = ledger.FetchOne(ctx, addr)
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestFetchAllScopedToProgram(t *testing.T) {
	pid := keys.NewRandomAddress()
	owner := keys.NewRandomAddress()
	ledger := New(pid)
	ctx := context.Background()

	_, err := ledger.CreateEntry(ctx, "Day 1", "Hello", owner)
	require.NoError(t, err)

	accounts, err := ledger.FetchAll(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	other, err := ledger.FetchAll(ctx, keys.NewRandomAddress())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAccountInfo(t *testing.T) {
	pid := keys.NewRandomAddress()
	owner := keys.NewRandomAddress()
	ledger := New(pid)
	ctx := context.Background()

	info, err := ledger.AccountInfo(ctx, pid)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.Executable)

	_, err = ledger.CreateEntry(ctx, "Day 1", "Hello", owner)
	require.NoError(t, err)
	addr, _, err := keys.Derive("Day 1", owner, pid)
	require.NoError(t, err)

	info, err = ledger.AccountInfo(ctx, addr)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.False(t, info.Executable)

	info, err = ledger.AccountInfo(ctx, keys.NewRandomAddress())
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSeed(t *testing.T) {
	pid := keys.NewRandomAddress()
	owner := keys.NewRandomAddress()
	ledger := New(pid)

	err := ledger.Seed([]devseed.JournalSeedEntry{
		{Title: "Day 1", Message: "Hello", Owner: owner.String()},
		{Title: "Day 2", Message: "Again", Owner: owner.String()},
	})
	require.NoError(t, err)

	accounts, err := ledger.FetchAll(context.Background(), pid)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	err = ledger.Seed([]devseed.JournalSeedEntry{{Title: "Bad", Owner: "not-an-address"}})
	assert.Error(t, err)
}

func TestInjectedFailure(t *testing.T) {
	pid := keys.NewRandomAddress()
	boom := errors.New("injected outage")
	ledger := New(pid, WithFailure(boom))

	_, err := ledger.FetchAll(context.Background(), pid)
	assert.ErrorIs(t, err, boom)
	_, err = ledger.CreateEntry(context.Background(), "Day 1", "Hello", keys.NewRandomAddress())
	assert.ErrorIs(t, err, boom)

	ledger.SetFailure(nil)
	_, err = ledger.FetchAll(context.Background(), pid)
	assert.NoError(t, err)
}

func TestContextCancellation(t *testing.T) {
	ledger := New(keys.NewRandomAddress())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ledger.FetchAll(ctx, keys.NewRandomAddress())
	assert.ErrorIs(t, err, context.Canceled)
}
