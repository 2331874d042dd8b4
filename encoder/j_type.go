package encoder

// encodeJType encodes "j target" / "jal target" into opcode(6) | target(26).
// target is a plain numeric word index, not a byte address; computing it
// from a label is the caller's job.
func encodeJType(mnemonic string, operands []string) (string, error) {
	if len(operands) != 1 {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "expected 1 target operand"}
	}

	target, err := target26(operands[0])
	if err != nil {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: err.Error()}
	}

	opcode := opcodeJ
	if mnemonic == "jal" {
		opcode = opcodeJal
	}

	return opcode + target, nil
}
