// Package orchestrator wires the parser, loader, encoder, and vm together
// into the three commands every shell (CLI, debugger, api) calls: Load,
// Step, and Convert. It is the only package those shells depend on; none
// of them reach into vm, parser, or encoder directly.
package orchestrator

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lookbusy1344/mips-sim/encoder"
	"github.com/lookbusy1344/mips-sim/loader"
	"github.com/lookbusy1344/mips-sim/memory"
	"github.com/lookbusy1344/mips-sim/parser"
	"github.com/lookbusy1344/mips-sim/vm"
)

var orchestratorLog *log.Logger

func init() {
	if os.Getenv("MIPSSIM_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "mips-sim-orchestrator-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			orchestratorLog = log.New(os.Stderr, "ORCHESTRATOR: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			orchestratorLog = log.New(f, "ORCHESTRATOR: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		orchestratorLog = log.New(io.Discard, "", 0)
	}
}

// Machine is the orchestrator. It owns the register file and memory (via
// vm.Machine), the encoder, and the last-parsed program, and exposes the
// read-only pull interface the shells poll after each step.
//
// Machine.mu exists only for the api package's benefit: one session's HTTP
// goroutines may issue Step/Load/Convert concurrently. vm.Machine itself
// still assumes single-threaded use; mu is held for the duration of one
// exported call and released before any callback fires further out, so a
// WebSocket broadcaster subscribed via SetCallbacks runs outside the lock,
// matching the lock-ordering discipline of a service layer that never
// calls back out to a shell while holding its own mutex.
type Machine struct {
	mu sync.Mutex

	vm       *vm.Machine
	enc      *encoder.Encoder
	program  *parser.Program
	loaded   bool
	textBase uint32

	onPCChange func(uint32)
	onLog      func(string)

	// pendingPC/pendingLog buffer the events vm.Machine emits synchronously
	// during Step, while mu is still held. They are drained and fired to
	// onPCChange/onLog only after mu is released, so a shell callback can
	// safely call back into Machine's own exported methods without
	// deadlocking.
	pendingPC  []uint32
	pendingLog []string
}

// NewMachine creates an orchestrator over a memory region sized per base
// and wordCount, assigning text-segment addresses starting at textBase (use
// memory.DefaultBaseAddress / memory.DefaultWordCount / parser.TextBase for
// the spec's defaults, or the matching fields of a loaded config.Config).
func NewMachine(base uint32, wordCount int, textBase uint32) *Machine {
	m := &Machine{
		vm:       vm.NewMachine(memory.NewRegion(base, wordCount)),
		enc:      encoder.NewEncoder(),
		textBase: textBase,
	}
	m.vm.SetCallbacks(m.capturePC, m.captureLog)
	return m
}

// SetCallbacks installs the shell's PC-change and log callbacks.
func (m *Machine) SetCallbacks(onPCChange func(uint32), onLog func(string)) {
	m.mu.Lock()
	m.onPCChange = onPCChange
	m.onLog = onLog
	m.mu.Unlock()
}

// capturePC and captureLog are registered with the underlying vm.Machine.
// They only buffer events; mu is always held when vm.Machine invokes them,
// since that only ever happens from inside Step.
func (m *Machine) capturePC(pc uint32) {
	m.pendingPC = append(m.pendingPC, pc)
}

func (m *Machine) captureLog(line string) {
	orchestratorLog.Printf("%s", line)
	m.pendingLog = append(m.pendingLog, line)
}

// drainAndFire copies the buffered events and the current callbacks out
// under the lock, then invokes the callbacks after the caller has released
// mu. Calling this is the only way captured events ever reach a shell.
func (m *Machine) drainAndFire() {
	pcEvents, logEvents := m.pendingPC, m.pendingLog
	m.pendingPC, m.pendingLog = nil, nil
	onPCChange, onLog := m.onPCChange, m.onLog
	m.mu.Unlock()

	for _, pc := range pcEvents {
		if onPCChange != nil {
			onPCChange(pc)
		}
	}
	for _, line := range logEvents {
		if onLog != nil {
			onLog(line)
		}
	}
}

// Load parses source, installs the program into the underlying machine via
// loader.Load, and resets register/memory/PC state. It is safe to call
// repeatedly: each call starts over from a clean machine.
func (m *Machine) Load(source string) *parser.ErrorList {
	m.mu.Lock()

	prog := parser.ParseWithBase(source, m.textBase)
	m.program = prog
	loader.Load(prog, m.vm)
	m.loaded = true

	m.mu.Unlock()

	if prog.Errors.HasErrors() {
		return prog.Errors
	}
	return nil
}

// Step requires Load to have occurred; if the program has run to
// completion it logs "no more instructions" and does nothing further,
// otherwise it dispatches to the underlying machine for exactly one
// instruction. The PC-change and log callbacks fire after mu is released.
func (m *Machine) Step() {
	m.mu.Lock()

	if !m.loaded {
		m.pendingLog = append(m.pendingLog, "no program loaded")
		m.drainAndFire()
		return
	}

	m.vm.Step()
	m.drainAndFire()
}

// Convert encodes every instruction in the currently loaded program and
// returns one entry per instruction, pairing its source line with either
// its machine-code bitstring or the error that prevented encoding.
func (m *Machine) Convert() []MachineCodeEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.program == nil {
		return nil
	}

	out := make([]MachineCodeEntry, len(m.program.Instructions))
	for i, instr := range m.program.Instructions {
		bits, err := m.enc.Encode(instr.Source)
		out[i] = MachineCodeEntry{Source: instr.Source, Encoded: bits, Err: err}
	}
	return out
}

// State reports whether a program is loaded and, if so, whether it has run
// to completion.
func (m *Machine) State() ExecutionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return StateNotLoaded
	}
	if m.vm.CurrentLine >= len(m.vm.Instructions) {
		return StateComplete
	}
	return StateRunning
}

// RegisterValues returns the ordered slots of the register file for
// display.
func (m *Machine) RegisterValues() []RegisterValue {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := m.vm.Registers.Enumerate()
	out := make([]RegisterValue, len(slots))
	for i, s := range slots {
		out[i] = RegisterValue{Name: s.Name, Number: s.Number, Value: s.Value}
	}
	return out
}

// MemorySnapshot returns the ordered sequence of memory words for display,
// starting at the region's base address.
func (m *Machine) MemorySnapshot() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vm.Memory.Snapshot()
}

// ProgramCounter returns the current PC value.
func (m *Machine) ProgramCounter() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vm.PC
}

// Instructions returns the ordered (address, source) pairs of the
// currently loaded program's text segment.
func (m *Machine) Instructions() []InstructionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]InstructionEntry, len(m.vm.Instructions))
	for i, instr := range m.vm.Instructions {
		out[i] = InstructionEntry{Address: instr.Address, Source: instr.Source}
	}
	return out
}
