package keys

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDeterministic(t *testing.T) {
	owner := NewRandomAddress()
	programID := NewRandomAddress()

	addr1, bump1, err := Derive("Day 1", owner, programID)
	require.NoError(t, err)
	addr2, bump2, err := Derive("Day 1", owner, programID)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
	assert.False(t, addr1.IsZero())
	assert.False(t, onCurve(addr1), "derived address must be off-curve")
}

func TestDeriveDistinguishesSeeds(t *testing.T) {
	owner := NewRandomAddress()
	other := NewRandomAddress()
	programID := NewRandomAddress()

	base, _, err := Derive("Day 1", owner, programID)
	require.NoError(t, err)

	byTitle, _, err := Derive("Day 2", owner, programID)
	require.NoError(t, err)
	assert.NotEqual(t, base, byTitle)

	byOwner, _, err := Derive("Day 1", other, programID)
	require.NoError(t, err)
	assert.NotEqual(t, base, byOwner)

	byProgram, _, err := Derive("Day 1", owner, other)
	require.NoError(t, err)
	assert.NotEqual(t, base, byProgram)
}

func TestDeriveUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping uniqueness sweep in short mode")
	}
	owner := NewRandomAddress()
	programID := NewRandomAddress()

	seen := make(map[Address]string, 10000)
	for i := 0; i < 10000; i++ {
		title := fmt.Sprintf("entry-%d", i)
		addr, _, err := Derive(title, owner, programID)
		require.NoError(t, err)
		if prev, dup := seen[addr]; dup {
			t.Fatalf("address collision between %q and %q: %s", prev, title, addr)
		}
		seen[addr] = title
	}
}

func TestDeriveEmptyTitle(t *testing.T) {
	// No length validation here: an empty or oversized title is the remote
	// program's rejection to raise.
	addr, _, err := Derive("", NewRandomAddress(), NewRandomAddress())
	require.NoError(t, err)
	assert.False(t, addr.IsZero())
}
