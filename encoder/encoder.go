// Package encoder implements the pure mnemonic+operands -> 32-bit
// machine-code mapping described in spec.md §4.4. An Encoder never mutates
// state; encoding the same line twice always produces the same result.
package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/mips-sim/register"
)

// Encoder converts a single assembly source line into its 32-character
// binary machine-code string.
type Encoder struct{}

// NewEncoder creates an encoder. Encoder holds no state; NewEncoder exists
// so callers construct it the same way as the rest of the core components.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode tokenizes line, dispatches to the mnemonic's encoding family, and
// returns the resulting 32-character string of '0'/'1'.
func (e *Encoder) Encode(line string) (string, error) {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return "", &ErrInvalidOperands{Mnemonic: "", Reason: "empty instruction"}
	}

	mnemonic := tokens[0]
	operands := tokens[1:]

	switch familyOf(mnemonic) {
	case familyRType3Reg:
		return encodeRType3Reg(mnemonic, operands)
	case familyRTypeShift:
		return encodeRTypeShift(mnemonic, operands)
	case familyRType1Reg:
		return encodeRType1Reg(mnemonic, operands)
	case familyIType:
		return encodeAddi(operands)
	case familyIMemory:
		return encodeIMemory(mnemonic, operands)
	case familyIBranch:
		return encodeIBranch(mnemonic, operands)
	case familyJType:
		return encodeJType(mnemonic, operands)
	default:
		return "", &ErrUnknownMnemonic{Mnemonic: mnemonic}
	}
}

// tokenize replaces commas with spaces and splits on whitespace, per
// spec.md §4.4.
func tokenize(line string) []string {
	replaced := strings.ReplaceAll(line, ",", " ")
	return strings.Fields(replaced)
}

// reg5 resolves a register operand to its 5-bit binary field.
func reg5(operand string) (string, error) {
	n, err := register.Number(operand)
	if err != nil {
		return "", err
	}
	return toBinary(uint32(n), 5), nil
}

// toBinary renders v as a zero-padded binary string of the given width,
// truncated to that many low-order bits.
func toBinary(v uint32, width int) string {
	s := strconv.FormatUint(uint64(v)&((1<<uint(width))-1), 2)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// signedImmediate16 parses a decimal integer operand and renders it as an
// unsigned two's-complement 16-bit binary field.
func signedImmediate16(operand string) (string, error) {
	v, err := strconv.ParseInt(operand, 10, 32)
	if err != nil {
		return "", fmt.Errorf("not an integer: %s", operand)
	}
	return toBinary(uint32(int16(v)), 16), nil
}

// target26 parses a decimal integer operand and renders it as an unsigned
// 26-bit binary field.
func target26(operand string) (string, error) {
	v, err := strconv.ParseInt(operand, 10, 32)
	if err != nil {
		return "", fmt.Errorf("not an integer: %s", operand)
	}
	return toBinary(uint32(v), 26), nil
}
