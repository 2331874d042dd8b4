package vm

import (
	"strconv"
	"strings"
)

// stepResult carries the outcome of one instruction's EXECUTE phase: the
// log line Step should emit, and whether PC/CurrentLine were already set by
// the instruction itself (branch/jump) or still need the default +4 tick.
type stepResult struct {
	message        string
	controlChanged bool
}

func tokenize(source string) []string {
	return strings.Fields(strings.ReplaceAll(source, ",", " "))
}

// execute dispatches to the mnemonic's semantics and returns the resulting
// log message. A returned error means the instruction did not execute; the
// caller (Step) still advances PC by 4.
func (m *Machine) execute(mnemonic string, operands []string) (stepResult, error) {
	switch mnemonic {
	case "add":
		return m.execArith3(mnemonic, operands, func(a, b int32) int32 { return a + b })
	case "sub":
		return m.execArith3(mnemonic, operands, func(a, b int32) int32 { return a - b })
	case "and":
		return m.execArith3(mnemonic, operands, func(a, b int32) int32 { return a & b })
	case "or":
		return m.execArith3(mnemonic, operands, func(a, b int32) int32 { return a | b })
	case "slt":
		return m.execArith3(mnemonic, operands, func(a, b int32) int32 {
			if a < b {
				return 1
			}
			return 0
		})
	case "sll":
		return m.execShift(mnemonic, operands, func(v uint32, sa uint32) uint32 { return v << sa })
	case "srl":
		return m.execShift(mnemonic, operands, func(v uint32, sa uint32) uint32 { return v >> sa })
	case "addi":
		return m.execAddi(operands)
	case "lw":
		return m.execLoad(operands)
	case "sw":
		return m.execStore(operands)
	case "beq":
		return m.execBranch(mnemonic, operands, func(a, b int32) bool { return a == b })
	case "bne":
		return m.execBranch(mnemonic, operands, func(a, b int32) bool { return a != b })
	case "j":
		return m.execJump(operands)
	case "jal":
		return m.execJumpAndLink(operands)
	case "jr":
		return m.execJumpRegister(operands)
	default:
		return stepResult{}, &ErrMalformedOperand{Mnemonic: mnemonic, Reason: "unknown mnemonic"}
	}
}

func (m *Machine) readReg(name string) (int32, error) {
	v, err := m.Registers.Read(name)
	return int32(v), err
}

func (m *Machine) writeReg(name string, value int32) error {
	return m.Registers.Write(name, uint32(value))
}

func (m *Machine) execArith3(mnemonic string, operands []string, op func(a, b int32) int32) (stepResult, error) {
	if len(operands) != 3 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: mnemonic, Reason: "expected rd, rs, rt"}
	}
	rs, err := m.readReg(operands[1])
	if err != nil {
		return stepResult{}, err
	}
	rt, err := m.readReg(operands[2])
	if err != nil {
		return stepResult{}, err
	}
	result := op(rs, rt)
	if err := m.writeReg(operands[0], result); err != nil {
		return stepResult{}, err
	}
	return stepResult{message: mnemonic + " " + operands[0] + " = " + strconv.FormatInt(int64(result), 10)}, nil
}

// shiftAmount resolves sa as either a register name (its value is used) or
// a literal decimal integer, per spec.md §4.5.
func (m *Machine) shiftAmount(operand string) (uint32, error) {
	if v, err := m.readReg(operand); err == nil {
		return uint32(v) & 0x1f, nil
	}
	n, err := strconv.ParseInt(operand, 10, 32)
	if err != nil {
		return 0, &ErrMalformedOperand{Mnemonic: "shift", Reason: "sa must be a register or integer: " + operand}
	}
	return uint32(n) & 0x1f, nil
}

func (m *Machine) execShift(mnemonic string, operands []string, op func(v, sa uint32) uint32) (stepResult, error) {
	if len(operands) != 3 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: mnemonic, Reason: "expected rd, rs, sa"}
	}
	rs, err := m.readReg(operands[1])
	if err != nil {
		return stepResult{}, err
	}
	sa, err := m.shiftAmount(operands[2])
	if err != nil {
		return stepResult{}, err
	}
	result := int32(op(uint32(rs), sa))
	if err := m.writeReg(operands[0], result); err != nil {
		return stepResult{}, err
	}
	return stepResult{message: mnemonic + " " + operands[0] + " = " + strconv.FormatInt(int64(result), 10)}, nil
}

func (m *Machine) execAddi(operands []string) (stepResult, error) {
	if len(operands) != 3 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "addi", Reason: "expected rt, rs, imm"}
	}
	rs, err := m.readReg(operands[1])
	if err != nil {
		return stepResult{}, err
	}
	imm, err := strconv.ParseInt(operands[2], 10, 32)
	if err != nil {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "addi", Reason: "immediate must be an integer: " + operands[2]}
	}
	result := rs + int32(imm)
	if err := m.writeReg(operands[0], result); err != nil {
		return stepResult{}, err
	}
	return stepResult{message: "addi " + operands[0] + " = " + strconv.FormatInt(int64(result), 10)}, nil
}

// memoryOperand splits "offset(base)" into its numeric offset and base
// register name. An operand with no parentheses names a data label
// instead and is handled by the caller before memoryOperand is reached.
func memoryOperand(operand string) (offset int32, base string, err error) {
	open := strings.Index(operand, "(")
	close := strings.Index(operand, ")")
	if open == -1 || close == -1 || close < open {
		return 0, "", &ErrMalformedOperand{Mnemonic: "", Reason: "malformed memory operand: " + operand}
	}
	offsetText := strings.TrimSpace(operand[:open])
	if offsetText == "" {
		offsetText = "0"
	}
	n, parseErr := strconv.ParseInt(offsetText, 10, 32)
	if parseErr != nil {
		return 0, "", &ErrMalformedOperand{Mnemonic: "", Reason: "offset must be an integer: " + offsetText}
	}
	return int32(n), strings.TrimSpace(operand[open+1 : close]), nil
}

func (m *Machine) execLoad(operands []string) (stepResult, error) {
	if len(operands) != 2 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "lw", Reason: "expected rt, offset(base)"}
	}
	rt := operands[0]

	if !strings.Contains(operands[1], "(") {
		value, err := m.Memory.LookupNamed(operands[1])
		if err != nil {
			return stepResult{}, err
		}
		if err := m.writeReg(rt, int32(value)); err != nil {
			return stepResult{}, err
		}
		return stepResult{message: "lw " + rt + " = " + strconv.FormatInt(int64(value), 10) + " (" + operands[1] + ")"}, nil
	}

	offset, base, err := memoryOperand(operands[1])
	if err != nil {
		return stepResult{}, err
	}
	baseVal, err := m.readReg(base)
	if err != nil {
		return stepResult{}, err
	}
	addr := uint32(baseVal + offset)
	value, err := m.Memory.ReadWord(addr)
	if err != nil {
		return stepResult{}, err
	}
	if err := m.writeReg(rt, int32(value)); err != nil {
		return stepResult{}, err
	}
	return stepResult{message: "lw " + rt + " = " + strconv.FormatInt(int64(value), 10)}, nil
}

func (m *Machine) execStore(operands []string) (stepResult, error) {
	if len(operands) != 2 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "sw", Reason: "expected rt, offset(base)"}
	}
	value, err := m.readReg(operands[0])
	if err != nil {
		return stepResult{}, err
	}

	if !strings.Contains(operands[1], "(") {
		if err := m.Memory.SetNamed(operands[1], uint32(value)); err != nil {
			return stepResult{}, &ErrMalformedOperand{Mnemonic: "sw", Reason: err.Error()}
		}
		return stepResult{message: "sw " + operands[1] + " = " + strconv.FormatInt(int64(value), 10)}, nil
	}

	offset, base, err := memoryOperand(operands[1])
	if err != nil {
		return stepResult{}, err
	}
	baseVal, err := m.readReg(base)
	if err != nil {
		return stepResult{}, err
	}
	addr := uint32(baseVal + offset)
	if err := m.Memory.WriteWord(addr, uint32(value)); err != nil {
		return stepResult{}, err
	}
	return stepResult{message: "sw [" + strconv.FormatUint(uint64(addr), 16) + "] = " + strconv.FormatInt(int64(value), 10)}, nil
}

func (m *Machine) jumpTo(label string) (int, error) {
	idx, ok := m.Labels[label]
	if !ok {
		return 0, &ErrUnknownLabel{Label: label}
	}
	return idx, nil
}

func (m *Machine) execBranch(mnemonic string, operands []string, cond func(a, b int32) bool) (stepResult, error) {
	if len(operands) != 3 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: mnemonic, Reason: "expected rs, rt, label"}
	}
	rs, err := m.readReg(operands[0])
	if err != nil {
		return stepResult{}, err
	}
	rt, err := m.readReg(operands[1])
	if err != nil {
		return stepResult{}, err
	}

	if !cond(rs, rt) {
		return stepResult{message: mnemonic + " not taken"}, nil
	}

	idx, err := m.jumpTo(operands[2])
	if err != nil {
		return stepResult{}, err
	}
	m.CurrentLine = idx
	m.PC = uint32(idx) * 4
	return stepResult{message: mnemonic + " taken -> " + operands[2], controlChanged: true}, nil
}

func (m *Machine) execJump(operands []string) (stepResult, error) {
	if len(operands) != 1 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "j", Reason: "expected a label"}
	}
	idx, err := m.jumpTo(operands[0])
	if err != nil {
		return stepResult{}, err
	}
	m.CurrentLine = idx
	m.PC = uint32(idx) * 4
	return stepResult{message: "j -> " + operands[0], controlChanged: true}, nil
}

func (m *Machine) execJumpAndLink(operands []string) (stepResult, error) {
	if len(operands) != 1 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "jal", Reason: "expected a label"}
	}
	idx, err := m.jumpTo(operands[0])
	if err != nil {
		return stepResult{}, err
	}
	// $ra lives in the same small label-index space jr's termination test
	// checks against (see loader.Load's sentinel), not the TextBase-relative
	// space m.PC uses for straight-line fetch.
	if err := m.writeReg("$ra", int32((m.CurrentLine+1)*4)); err != nil {
		return stepResult{}, err
	}
	m.CurrentLine = idx
	m.PC = uint32(idx) * 4
	return stepResult{message: "jal -> " + operands[0] + ", $ra saved", controlChanged: true}, nil
}

func (m *Machine) execJumpRegister(operands []string) (stepResult, error) {
	if len(operands) != 1 {
		return stepResult{}, &ErrMalformedOperand{Mnemonic: "jr", Reason: "expected a register"}
	}
	target, err := m.readReg(operands[0])
	if err != nil {
		return stepResult{}, err
	}

	limit := int32(len(m.Instructions)) * 4
	if target == 0 || target >= limit {
		m.CurrentLine = len(m.Instructions)
		m.PC = uint32(target)
		return stepResult{message: "jr " + operands[0] + ": program complete", controlChanged: true}, nil
	}

	m.PC = uint32(target)
	m.CurrentLine = int(target / 4)
	return stepResult{message: "jr -> " + operands[0], controlChanged: true}, nil
}
