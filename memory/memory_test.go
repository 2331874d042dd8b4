package memory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-sim/memory"
)

func TestReadWriteRoundTrip(t *testing.T) {
	r := memory.NewDefaultRegion()

	addr := memory.DefaultBaseAddress + 8
	require.NoError(t, r.WriteWord(addr, 0xCAFEBABE))

	v, err := r.ReadWord(addr)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), v)
}

func TestUnalignedAccessFails(t *testing.T) {
	r := memory.NewDefaultRegion()

	_, err := r.ReadWord(memory.DefaultBaseAddress + 1)
	require.Error(t, err)

	var unaligned *memory.ErrUnalignedAccess
	assert.True(t, errors.As(err, &unaligned))
}

func TestOutOfBoundsFails(t *testing.T) {
	r := memory.NewRegion(memory.DefaultBaseAddress, 4)

	_, err := r.ReadWord(memory.DefaultBaseAddress + 4*4)
	require.Error(t, err)

	var oob *memory.ErrOutOfBounds
	assert.True(t, errors.As(err, &oob))
}

func TestFallbackRegionSharesBackingArray(t *testing.T) {
	r := memory.NewRegion(memory.DefaultBaseAddress, 4)

	require.NoError(t, r.WriteWord(0, 7))
	v, err := r.ReadWord(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)

	v, err = r.ReadWord(memory.DefaultBaseAddress)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)

	_, err = r.ReadWord(16) // 4 words * 4 bytes == out of fallback range too
	require.Error(t, err)
}

func TestLoadNamedAndLookup(t *testing.T) {
	table := memory.NewNamedTable()
	table.Set("a", 5)
	table.Set("b", 7)

	r := memory.NewDefaultRegion()
	r.LoadNamed(table)

	v, err := r.LookupNamed("a")
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)

	snap := r.Snapshot()
	assert.Equal(t, uint32(5), snap[0])
	assert.Equal(t, uint32(7), snap[1])
}

func TestSetNamedUpdatesWord(t *testing.T) {
	table := memory.NewNamedTable()
	table.Set("x", 1)

	r := memory.NewDefaultRegion()
	r.LoadNamed(table)

	require.NoError(t, r.SetNamed("x", 99))
	v, err := r.LookupNamed("x")
	require.NoError(t, err)
	assert.Equal(t, uint32(99), v)
}

func TestResetClearsWordsAndNamedTable(t *testing.T) {
	table := memory.NewNamedTable()
	table.Set("x", 1)

	r := memory.NewDefaultRegion()
	r.LoadNamed(table)
	r.Reset()

	_, err := r.LookupNamed("x")
	assert.Error(t, err)

	snap := r.Snapshot()
	assert.Equal(t, uint32(0), snap[0])
}
