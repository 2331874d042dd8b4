// Package vm composes the register file and memory into one machine and
// steps instruction records against it one at a time.
package vm

import (
	"fmt"

	"github.com/lookbusy1344/mips-sim/memory"
	"github.com/lookbusy1344/mips-sim/register"
)

// Instruction is a single text-segment entry: the byte address the parser
// assigned it and its cleaned mnemonic+operand source line.
type Instruction struct {
	Address uint32
	Source  string
}

// Machine owns the register file, the memory region, and the PC/current-line
// pair that together make up one running program's state.
type Machine struct {
	Registers *register.File
	Memory    *memory.Region

	PC          uint32
	CurrentLine int

	Instructions []Instruction
	Labels       map[string]int

	onPCChange func(uint32)
	onLog      func(string)
}

// NewMachine creates a machine over an already-constructed memory region.
// The register file is always fresh; memory is supplied by the caller so
// loader and orchestrator can share one region across reloads.
func NewMachine(mem *memory.Region) *Machine {
	return &Machine{
		Registers: register.NewFile(),
		Memory:    mem,
		Labels:    make(map[string]int),
	}
}

// SetCallbacks installs the shell's PC-change and log callbacks. Both are
// invoked synchronously, on the same goroutine that called Step.
func (m *Machine) SetCallbacks(onPCChange func(uint32), onLog func(string)) {
	m.onPCChange = onPCChange
	m.onLog = onLog
}

// Reset clears the register file and rewinds PC/current-line to zero. It
// does not touch Instructions, Labels, or memory contents; loader is
// responsible for repopulating those on a fresh Load.
func (m *Machine) Reset() {
	m.Registers.ClearAll()
	m.PC = 0
	m.CurrentLine = 0
}

func (m *Machine) notifyPC() {
	if m.onPCChange != nil {
		m.onPCChange(m.PC)
	}
}

func (m *Machine) log(line string) {
	if m.onLog != nil {
		m.onLog(line)
	}
}

func (m *Machine) logf(format string, args ...any) {
	m.log(fmt.Sprintf(format, args...))
}

// advance applies the default control-flow rule: PC and current-line both
// move to the next instruction.
func (m *Machine) advance() {
	m.PC += 4
	m.CurrentLine++
}

// Step executes exactly one instruction at CurrentLine: FETCH, DECODE,
// EXECUTE, then either leave PC where EXECUTE put it (control transfer) or
// advance it by 4, then NOTIFY and LOG, per spec.md §4.5's state machine.
//
// A malformed operand or a memory fault never aborts the run: the error is
// logged and PC still advances, matching §7's "log and continue" policy.
func (m *Machine) Step() {
	if m.CurrentLine >= len(m.Instructions) {
		m.log("no more instructions")
		return
	}

	instr := m.Instructions[m.CurrentLine]
	m.PC = instr.Address

	tokens := tokenize(instr.Source)
	if len(tokens) == 0 {
		m.advance()
		m.notifyPC()
		m.log("empty instruction, skipped")
		return
	}

	mnemonic, operands := tokens[0], tokens[1:]

	result, err := m.execute(mnemonic, operands)
	if err != nil {
		m.advance()
		m.notifyPC()
		m.logf("%s: %v", mnemonic, err)
		return
	}

	if !result.controlChanged {
		m.advance()
	}
	m.notifyPC()
	m.log(result.message)
}
