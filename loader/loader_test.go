package loader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-sim/loader"
	"github.com/lookbusy1344/mips-sim/memory"
	"github.com/lookbusy1344/mips-sim/parser"
	"github.com/lookbusy1344/mips-sim/vm"
)

func TestLoadInstallsDataAndSentinel(t *testing.T) {
	src := `.data
a: .word 5
b: .word 7
.text
main:
lw $t0, a
lw $t1, b
add $t2, $t0, $t1
`
	prog := parser.Parse(src)
	require.False(t, prog.Errors.HasErrors())

	m := vm.NewMachine(memory.NewDefaultRegion())
	loader.Load(prog, m)

	assert.Equal(t, uint32(0), m.PC)
	assert.Equal(t, 0, m.CurrentLine)
	assert.Len(t, m.Instructions, 3)

	ra, err := m.Registers.Read("$ra")
	require.NoError(t, err)
	assert.Equal(t, uint32(3*4), ra)

	assert.Equal(t, uint32(5), m.Memory.Snapshot()[0])
	assert.Equal(t, uint32(7), m.Memory.Snapshot()[1])
}

func TestLoadCopiesLabelMap(t *testing.T) {
	src := `.text
main:
addi $t0, $zero, 3
skip:
addi $t1, $zero, 7
`
	prog := parser.Parse(src)
	m := vm.NewMachine(memory.NewDefaultRegion())
	loader.Load(prog, m)

	idx, ok := m.Labels["skip"]
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestReloadResetsPriorState(t *testing.T) {
	prog := parser.Parse(".text\nmain:\naddi $t0, $zero, 1\n")
	m := vm.NewMachine(memory.NewDefaultRegion())
	loader.Load(prog, m)
	m.Step()

	loader.Load(prog, m)
	assert.Equal(t, uint32(0), m.PC)
	assert.Equal(t, 0, m.CurrentLine)
	v, err := m.Registers.Read("$t0")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
}
