// Package loader installs a parsed program into a vm.Machine, the one seam
// shared by every shell: the CLI loads once and runs to completion, the
// orchestrator's Load command calls the same function for interactive
// stepping.
package loader

import (
	"github.com/lookbusy1344/mips-sim/parser"
	"github.com/lookbusy1344/mips-sim/vm"
)

// Load installs prog's data table and instruction list into m, writes the
// $ra termination sentinel (len(instructions) x 4), and resets the
// register file, PC, and current line so the machine is ready to step from
// the beginning.
func Load(prog *parser.Program, m *vm.Machine) {
	m.Memory.Reset()
	m.Memory.LoadNamed(prog.Data)

	m.Registers.ClearAll()

	m.Instructions = make([]vm.Instruction, len(prog.Instructions))
	for i, instr := range prog.Instructions {
		m.Instructions[i] = vm.Instruction{Address: instr.Address, Source: instr.Source}
	}

	m.Labels = prog.Labels

	sentinel := uint32(len(prog.Instructions)) * 4
	_ = m.Registers.Write("$ra", sentinel)

	m.PC = 0
	m.CurrentLine = 0
}
