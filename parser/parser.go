// Package parser splits MIPS assembly source into a data section, a text
// section, and a label map, per spec.md §4.3.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/mips-sim/memory"
)

// TextBase is the byte address assigned to the first text-section
// instruction.
const TextBase uint32 = 0x00400000

// Instruction is one assigned-address, cleaned source line from the text
// segment.
type Instruction struct {
	Address uint32
	Source  string
}

// Program is the parser's complete output: the named data table, the
// ordered instruction list, and the label -> instruction-index map.
type Program struct {
	Data         *memory.NamedTable
	Instructions []Instruction
	Labels       map[string]int
	Errors       *ErrorList
}

// Parse splits raw source text into a data section and a text section,
// assigning text-segment addresses starting at the package default
// TextBase. Malformed lines are recorded in Program.Errors and skipped;
// Parse never aborts on a bad line (spec.md §7).
func Parse(source string) *Program {
	return ParseWithBase(source, TextBase)
}

// ParseWithBase is Parse with the first text-segment instruction's address
// overridden to textBase, for a host that loaded a non-default
// config.Config.Execution.TextBase.
func ParseWithBase(source string, textBase uint32) *Program {
	lines := strings.Split(source, "\n")

	prog := &Program{
		Data:   memory.NewNamedTable(),
		Labels: make(map[string]int),
		Errors: &ErrorList{},
	}

	parseDataSection(lines, prog)
	parseTextSection(lines, textBase, prog)

	return prog
}

// parseDataSection implements spec.md §4.3's data-section rule: locate the
// first ".data" line, scan until ".text" or a blank line, and parse each
// "<ident>: .word <literal>" line.
func parseDataSection(lines []string, prog *Program) {
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == ".data" {
			start = i
			break
		}
	}
	if start == -1 {
		return
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == ".text" || trimmed == "" {
			end = i
			break
		}
	}

	for i := start + 1; i < end; i++ {
		raw := lines[i]
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		ident, literal, ok := splitWordDirective(line)
		if !ok {
			prog.Errors.Add(Position{Line: i + 1}, ErrMalformedWord, raw, "expected '<ident>: .word <literal>'")
			continue
		}

		value, err := ParseInteger(literal)
		if err != nil {
			prog.Errors.Add(Position{Line: i + 1}, ErrMalformedWord, raw, err.Error())
			continue
		}

		prog.Data.Set(ident, value)
	}
}

// splitWordDirective recognizes "<ident>: .word <literal>" and returns the
// identifier and literal text.
func splitWordDirective(line string) (ident, literal string, ok bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", "", false
	}
	ident = strings.TrimSpace(line[:colon])
	rest := strings.TrimSpace(line[colon+1:])

	fields := strings.Fields(rest)
	if len(fields) != 2 || fields[0] != ".word" {
		return "", "", false
	}
	if ident == "" {
		return "", "", false
	}
	return ident, fields[1], true
}

// parseTextSection implements spec.md §4.3's text-section rule.
func parseTextSection(lines []string, textBase uint32, prog *Program) {
	textStart := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == ".text" {
			textStart = i
			break
		}
	}
	if textStart == -1 {
		return
	}

	start := textStart + 1
	for i := textStart + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "main:" {
			start = i + 1
			break
		}
	}

	addr := textBase
	for i := start; i < len(lines); i++ {
		raw := lines[i]
		line := stripComment(raw)
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") || strings.HasPrefix(line, ":") {
			continue
		}

		if label, ok := standaloneLabel(line); ok {
			prog.Labels[label] = len(prog.Instructions)
			continue
		}

		normalized, ok := normalizeOperands(line)
		if !ok {
			prog.Errors.Add(Position{Line: i + 1}, ErrMalformedInstruction, raw, "could not normalize operands")
			continue
		}

		prog.Instructions = append(prog.Instructions, Instruction{Address: addr, Source: normalized})
		addr += 4
	}
}

// standaloneLabel recognizes a bare "label:" line (nothing follows the
// colon). The label map records the index of the next instruction to be
// emitted; the line itself is not emitted (spec.md §4.3, §9).
func standaloneLabel(line string) (string, bool) {
	if !strings.HasSuffix(line, ":") {
		return "", false
	}
	label := strings.TrimSuffix(line, ":")
	if label == "" || strings.ContainsAny(label, " \t") {
		return "", false
	}
	return label, true
}

// stripComment removes a trailing "# comment" from a line.
func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		return line[:i]
	}
	return line
}

// normalizeOperands replaces commas with whitespace and rewrites any
// literal integer operand (decimal/hex/negative) to canonical decimal
// text, leaving register names, labels, and base(offset) forms untouched.
func normalizeOperands(line string) (string, bool) {
	replaced := strings.ReplaceAll(line, ",", " ")
	fields := strings.Fields(replaced)
	if len(fields) == 0 {
		return "", false
	}

	out := make([]string, len(fields))
	out[0] = fields[0]
	for i := 1; i < len(fields); i++ {
		out[i] = normalizeField(fields[i])
	}
	return strings.Join(out, " "), true
}

// normalizeField rewrites a single operand token to canonical decimal text
// if it looks like a bare integer literal; anything else (registers,
// labels, offset(base) forms) passes through unchanged.
func normalizeField(field string) string {
	if v, err := ParseInteger(field); err == nil {
		return strconv.FormatInt(int64(v), 10)
	}
	return field
}

// ParseInteger parses a decimal, negative decimal, or 0x/-0x hexadecimal
// integer literal into a signed 32-bit value.
func ParseInteger(s string) (int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty integer literal")
	}

	negative := false
	rest := s
	if strings.HasPrefix(rest, "-") {
		negative = true
		rest = rest[1:]
	}

	var value uint64
	var err error
	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") {
		value, err = strconv.ParseUint(rest[2:], 16, 32)
	} else {
		value, err = strconv.ParseUint(rest, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q: %w", s, err)
	}

	result := int32(uint32(value))
	if negative {
		result = -result
	}
	return result, nil
}
