package encoder

import "strings"

// encodeAddi encodes "addi rt, rs, imm" into
// opcode(6) | rs(5) | rt(5) | imm(16).
func encodeAddi(operands []string) (string, error) {
	if len(operands) != 3 {
		return "", &ErrInvalidOperands{Mnemonic: "addi", Reason: "expected rt, rs, imm"}
	}

	rt, err := reg5(operands[0])
	if err != nil {
		return "", err
	}
	rs, err := reg5(operands[1])
	if err != nil {
		return "", err
	}
	imm, err := signedImmediate16(operands[2])
	if err != nil {
		return "", &ErrInvalidOperands{Mnemonic: "addi", Reason: err.Error()}
	}

	return opcodeAddi + rs + rt + imm, nil
}

// encodeIMemory encodes "lw rt, offset(base)" / "sw rt, offset(base)" into
// opcode(6) | base(5) | rt(5) | offset(16). A bare data-label operand with
// no parenthesized base register is treated as offset 0 against $gp, since
// the label itself carries no register.
func encodeIMemory(mnemonic string, operands []string) (string, error) {
	if len(operands) != 2 {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "expected rt, offset(base)"}
	}

	rt, err := reg5(operands[0])
	if err != nil {
		return "", err
	}

	offsetTok, baseTok, err := splitMemoryOperand(operands[1])
	if err != nil {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: err.Error()}
	}

	base, err := reg5(baseTok)
	if err != nil {
		return "", err
	}
	offset, err := signedImmediate16(offsetTok)
	if err != nil {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: err.Error()}
	}

	opcode := opcodeLw
	if mnemonic == "sw" {
		opcode = opcodeSw
	}

	return opcode + base + rt + offset, nil
}

// splitMemoryOperand parses "offset(base)" into its two tokens. An operand
// with no parentheses is treated as a bare label: offset 0 against $gp.
func splitMemoryOperand(operand string) (offset, base string, err error) {
	open := strings.Index(operand, "(")
	if open == -1 {
		return "0", "$gp", nil
	}
	close := strings.Index(operand, ")")
	if close == -1 || close < open {
		return "", "", &ErrInvalidOperands{Mnemonic: "", Reason: "malformed memory operand: " + operand}
	}

	offset = strings.TrimSpace(operand[:open])
	if offset == "" {
		offset = "0"
	}
	base = strings.TrimSpace(operand[open+1 : close])
	return offset, base, nil
}

// encodeIBranch encodes "beq rs, rt, imm" / "bne rs, rt, imm" into
// opcode(6) | rs(5) | rt(5) | imm(16). The third operand must be a numeric
// immediate; a label operand is not resolved to an offset and is rejected
// with ErrInvalidOperands.
func encodeIBranch(mnemonic string, operands []string) (string, error) {
	if len(operands) != 3 {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "expected rs, rt, imm"}
	}

	rs, err := reg5(operands[0])
	if err != nil {
		return "", err
	}
	rt, err := reg5(operands[1])
	if err != nil {
		return "", err
	}
	imm, err := signedImmediate16(operands[2])
	if err != nil {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "branch offset must be numeric: " + err.Error()}
	}

	opcode := opcodeBeq
	if mnemonic == "bne" {
		opcode = opcodeBne
	}

	return opcode + rs + rt + imm, nil
}
