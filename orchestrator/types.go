package orchestrator

// RegisterValue is one (name, number, value) triple from the register
// file, in slot order, for display.
type RegisterValue struct {
	Name   string
	Number int
	Value  uint32
}

// InstructionEntry pairs a text-segment instruction's assigned address
// with its cleaned source line.
type InstructionEntry struct {
	Address uint32
	Source  string
}

// MachineCodeEntry pairs an instruction's source line with its encoded
// bitstring, or the error that prevented encoding.
type MachineCodeEntry struct {
	Source  string
	Encoded string
	Err     error
}

// ExecutionState reports whether a machine has a program loaded and
// whether it has run to completion, for shells that want to gate their own
// controls (disable "step" once the program is done, for instance).
type ExecutionState string

const (
	StateNotLoaded ExecutionState = "not_loaded"
	StateRunning   ExecutionState = "running"
	StateComplete  ExecutionState = "complete"
)
