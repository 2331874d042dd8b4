package encoder

// Opcode and funct values, six-bit binary strings per spec.md §4.4. The
// R-type opcode is always "000000" and is not listed per mnemonic.
const (
	opcodeAddi = "001000"
	opcodeLw   = "100011"
	opcodeSw   = "101011"
	opcodeBeq  = "000100"
	opcodeBne  = "000101"
	opcodeJ    = "000010"
	opcodeJal  = "000011"

	functAdd = "100000"
	functSub = "100010"
	functAnd = "100100"
	functOr  = "100101"
	functSlt = "101010"
	functSll = "000000"
	functSrl = "000010"
	functJr  = "001000"

	rTypeOpcode = "000000"
)

// mnemonicFamily groups mnemonics by their encoding family, per the layout
// table in spec.md §4.4.
type mnemonicFamily int

const (
	familyUnknown mnemonicFamily = iota
	familyRType3Reg
	familyRTypeShift
	familyRType1Reg
	familyIType
	familyIMemory
	familyIBranch
	familyJType
)

func familyOf(mnemonic string) mnemonicFamily {
	switch mnemonic {
	case "add", "sub", "and", "or", "slt":
		return familyRType3Reg
	case "sll", "srl":
		return familyRTypeShift
	case "jr":
		return familyRType1Reg
	case "addi":
		return familyIType
	case "lw", "sw":
		return familyIMemory
	case "beq", "bne":
		return familyIBranch
	case "j", "jal":
		return familyJType
	default:
		return familyUnknown
	}
}
