package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-sim/parser"
)

func TestParseDataSection(t *testing.T) {
	src := `.data
a: .word 5
b: .word -7
c: .word 0x10
.text
main:
lw $t0, a
`
	prog := parser.Parse(src)
	require.False(t, prog.Errors.HasErrors())

	v, ok := prog.Data.Value("a")
	require.True(t, ok)
	assert.Equal(t, int32(5), v)

	v, ok = prog.Data.Value("b")
	require.True(t, ok)
	assert.Equal(t, int32(-7), v)

	v, ok = prog.Data.Value("c")
	require.True(t, ok)
	assert.Equal(t, int32(16), v)
}

func TestParseTextSectionAssignsAddresses(t *testing.T) {
	src := `.text
main:
addi $t0, $zero, 1
addi $t1, $zero, 2
add $t2, $t0, $t1
`
	prog := parser.Parse(src)
	require.Len(t, prog.Instructions, 3)

	assert.Equal(t, uint32(0x00400000), prog.Instructions[0].Address)
	assert.Equal(t, uint32(0x00400004), prog.Instructions[1].Address)
	assert.Equal(t, uint32(0x00400008), prog.Instructions[2].Address)
}

func TestParseStripsCommentsAndNormalizesImmediates(t *testing.T) {
	src := `.text
main:
addi $t0, $zero, -0x1 # load -1
`
	prog := parser.Parse(src)
	require.Len(t, prog.Instructions, 1)
	assert.Equal(t, "addi $t0 $zero -1", prog.Instructions[0].Source)
}

func TestParseWithoutMainFallsBackToSectionStart(t *testing.T) {
	src := `.text
addi $t0, $zero, 9
`
	prog := parser.Parse(src)
	require.Len(t, prog.Instructions, 1)
	assert.Equal(t, "addi $t0 $zero 9", prog.Instructions[0].Source)
}

func TestStandaloneLabelRecordedAndNotEmitted(t *testing.T) {
	src := `.text
main:
addi $t0, $zero, 3
addi $t1, $zero, 3
beq $t0, $t1, skip
addi $t2, $zero, 99
skip:
addi $t3, $zero, 7
`
	prog := parser.Parse(src)

	idx, ok := prog.Labels["skip"]
	require.True(t, ok)
	assert.Equal(t, 4, idx)

	require.Len(t, prog.Instructions, 5)
	assert.Equal(t, "addi $t3 $zero 7", prog.Instructions[4].Source)
}

func TestMalformedWordLineIsSkippedNotFatal(t *testing.T) {
	src := `.data
a: .word notanumber
b: .word 3
.text
main:
addi $t0, $zero, 1
`
	prog := parser.Parse(src)
	require.True(t, prog.Errors.HasErrors())

	_, ok := prog.Data.Value("a")
	assert.False(t, ok)

	v, ok := prog.Data.Value("b")
	require.True(t, ok)
	assert.Equal(t, int32(3), v)
}

func TestParseIntegerFormats(t *testing.T) {
	cases := map[string]int32{
		"5":     5,
		"-5":    -5,
		"0x10":  16,
		"-0x10": -16,
		"0":     0,
	}
	for in, want := range cases {
		got, err := parser.ParseInteger(in)
		require.NoErrorf(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}
}
