package encoder

// encodeRType3Reg encodes add/sub/and/or/slt: "mnemonic rd, rs, rt" into
// 000000 | rs(5) | rt(5) | rd(5) | 00000 | funct(6).
func encodeRType3Reg(mnemonic string, operands []string) (string, error) {
	if len(operands) != 3 {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "expected 3 register operands"}
	}

	funct, ok := functFor(mnemonic)
	if !ok {
		return "", &ErrUnknownMnemonic{Mnemonic: mnemonic}
	}

	rd, err := reg5(operands[0])
	if err != nil {
		return "", err
	}
	rs, err := reg5(operands[1])
	if err != nil {
		return "", err
	}
	rt, err := reg5(operands[2])
	if err != nil {
		return "", err
	}

	return rTypeOpcode + rs + rt + rd + "00000" + funct, nil
}

// encodeRTypeShift encodes sll/srl: "mnemonic rd, rs, sa" into the same
// layout as a 3-register R-type instruction. Per spec.md §9 this reduced
// encoding never places the shift amount in the word: if sa names a
// register it fills the rt field (the only register-shaped slot left);
// a literal shift amount leaves rt as zero bits.
func encodeRTypeShift(mnemonic string, operands []string) (string, error) {
	if len(operands) != 3 {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "expected rd, rs, sa"}
	}

	funct, ok := functFor(mnemonic)
	if !ok {
		return "", &ErrUnknownMnemonic{Mnemonic: mnemonic}
	}

	rd, err := reg5(operands[0])
	if err != nil {
		return "", err
	}
	rs, err := reg5(operands[1])
	if err != nil {
		return "", err
	}

	rt := "00000"
	if saReg, err := reg5(operands[2]); err == nil {
		rt = saReg
	}

	return rTypeOpcode + rs + rt + rd + "00000" + funct, nil
}

// encodeRType1Reg encodes jr: "jr rs" into
// 000000 | rs(5) | rt(5) | rd(5) | shamt(5) | funct(6), with the unused
// rt/rd/shamt fields zeroed.
func encodeRType1Reg(mnemonic string, operands []string) (string, error) {
	if len(operands) != 1 {
		return "", &ErrInvalidOperands{Mnemonic: mnemonic, Reason: "expected 1 register operand"}
	}

	rs, err := reg5(operands[0])
	if err != nil {
		return "", err
	}

	return rTypeOpcode + rs + "000000000000000" + functJr, nil
}

func functFor(mnemonic string) (string, bool) {
	switch mnemonic {
	case "add":
		return functAdd, true
	case "sub":
		return functSub, true
	case "and":
		return functAnd, true
	case "or":
		return functOr, true
	case "slt":
		return functSlt, true
	case "sll":
		return functSll, true
	case "srl":
		return functSrl, true
	default:
		return "", false
	}
}
