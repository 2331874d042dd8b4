package register_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-sim/register"
)

func TestReadUnknownRegister(t *testing.T) {
	f := register.NewFile()

	_, err := f.Read("$bogus")
	require.Error(t, err)

	var unknown *register.ErrUnknownRegister
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "$bogus", unknown.Name)
}

func TestZeroAlwaysReadsZero(t *testing.T) {
	f := register.NewFile()

	require.NoError(t, f.Write("$zero", 0xDEADBEEF))

	v, err := f.Read("$zero")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
}

func TestWriteMasksTo32Bits(t *testing.T) {
	f := register.NewFile()

	// Write takes a uint32, so a wider value reaches it as its low 32 bits.
	wide := uint64(0x1_0000_0001)
	require.NoError(t, f.Write("$t0", uint32(wide)))

	v, err := f.Read("$t0")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
}

func TestClearAllResetsEverySlot(t *testing.T) {
	f := register.NewFile()

	for _, name := range []string{"$t0", "$s1", "$ra", "$sp"} {
		require.NoError(t, f.Write(name, 42))
	}

	f.ClearAll()

	for _, slot := range f.Enumerate() {
		assert.Equalf(t, uint32(0), slot.Value, "slot %s should be cleared", slot.Name)
	}
}

func TestEnumerateOrderAndCount(t *testing.T) {
	f := register.NewFile()
	slots := f.Enumerate()

	require.Len(t, slots, register.Count)
	assert.Equal(t, "$zero", slots[0].Name)
	assert.Equal(t, "$ra", slots[31].Name)
	for i, slot := range slots {
		assert.Equal(t, i, slot.Number)
	}
}

func TestNumberRoundTrip(t *testing.T) {
	n, err := register.Number("$t2")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "$t2", register.Name(n))
}
