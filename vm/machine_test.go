package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-sim/memory"
	"github.com/lookbusy1344/mips-sim/vm"
)

func newMachine() *vm.Machine {
	return vm.NewMachine(memory.NewDefaultRegion())
}

func TestArithmeticAdvancesPCByFour(t *testing.T) {
	m := newMachine()
	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "addi $t0 $zero 3"},
	}
	m.Step()
	assert.Equal(t, uint32(0x00400004), m.PC)
	v, err := m.Registers.Read("$t0")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v)
}

func TestLoadAddScenario(t *testing.T) {
	m := newMachine()
	table := memory.NewNamedTable()
	table.Set("a", 5)
	table.Set("b", 7)
	m.Memory.LoadNamed(table)

	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "lw $t0 a"},
		{Address: 0x00400004, Source: "lw $t1 b"},
		{Address: 0x00400008, Source: "add $t2 $t0 $t1"},
	}
	for range m.Instructions {
		m.Step()
	}

	t2, err := m.Registers.Read("$t2")
	require.NoError(t, err)
	assert.Equal(t, uint32(12), t2)
	assert.Equal(t, uint32(0x0040000C), m.PC)
}

func TestNegativeImmediateWraps(t *testing.T) {
	m := newMachine()
	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "addi $t0 $zero -1"},
	}
	m.Step()
	v, err := m.Registers.Read("$t0")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), v)
}

func TestBranchTakenScenario(t *testing.T) {
	m := newMachine()
	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "addi $t0 $zero 3"},
		{Address: 0x00400004, Source: "addi $t1 $zero 3"},
		{Address: 0x00400008, Source: "beq $t0 $t1 skip"},
		{Address: 0x0040000C, Source: "addi $t2 $zero 99"},
		{Address: 0x00400010, Source: "addi $t3 $zero 7"},
	}
	m.Labels = map[string]int{"skip": 4}

	for m.CurrentLine < len(m.Instructions) {
		m.Step()
	}

	t2, err := m.Registers.Read("$t2")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), t2)

	t3, err := m.Registers.Read("$t3")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), t3)
}

func TestLoadStoreRoundTrip(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.Registers.Write("$gp", memory.DefaultBaseAddress))

	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "addi $t0 $zero 42"},
		{Address: 0x00400004, Source: "sw $t0 0($gp)"},
		{Address: 0x00400008, Source: "lw $t1 0($gp)"},
	}
	for range m.Instructions {
		m.Step()
	}

	t1, err := m.Registers.Read("$t1")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), t1)
	assert.Equal(t, uint32(42), m.Memory.Snapshot()[0])
}

func TestJumpAndLinkThenReturn(t *testing.T) {
	m := newMachine()
	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "jal sub"},
		{Address: 0x00400004, Source: "addi $t0 $zero 1"},
		{Address: 0x00400008, Source: "jr $ra"},
	}
	m.Labels = map[string]int{"sub": 2}

	m.Step()
	ra, err := m.Registers.Read("$ra")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), ra)
	assert.Equal(t, 2, m.CurrentLine)

	m.Step()
	assert.Equal(t, uint32(ra), m.PC)
	assert.Equal(t, 1, m.CurrentLine)

	m.Step()
	t0, err := m.Registers.Read("$t0")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), t0)
	assert.Equal(t, 2, m.CurrentLine)
}

func TestJumpRegisterToZeroTerminates(t *testing.T) {
	m := newMachine()
	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "jr $ra"},
	}
	m.Step()
	assert.Equal(t, len(m.Instructions), m.CurrentLine)
}

func TestUnknownRegisterLogsAndAdvances(t *testing.T) {
	m := newMachine()
	var logged string
	m.SetCallbacks(nil, func(line string) { logged = line })

	m.Instructions = []vm.Instruction{
		{Address: 0x00400000, Source: "addi $bogus $zero 1"},
	}
	m.Step()

	assert.Equal(t, uint32(0x00400004), m.PC)
	assert.Contains(t, logged, "unknown register")
}

func TestStepPastEndLogsNoMoreInstructions(t *testing.T) {
	m := newMachine()
	var logged string
	m.SetCallbacks(nil, func(line string) { logged = line })
	m.Step()
	assert.Equal(t, "no more instructions", logged)
}
