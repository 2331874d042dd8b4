// Package memory implements the word-addressed data memory region and its
// named data table, per the dual primary/fallback addressing policy.
package memory

import "fmt"

// Default geometry for the data memory region, per the spec's constants.
const (
	DefaultBaseAddress uint32 = 0x10010000
	DefaultWordCount           = 128
)

// ErrUnalignedAccess is returned when an access does not fall on a 4-byte
// boundary.
type ErrUnalignedAccess struct {
	Address uint32
}

func (e *ErrUnalignedAccess) Error() string {
	return fmt.Sprintf("unaligned memory access at 0x%08X", e.Address)
}

// ErrOutOfBounds is returned when an access falls outside both the
// primary and fallback address ranges.
type ErrOutOfBounds struct {
	Address uint32
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("memory access out of bounds at 0x%08X", e.Address)
}

// ErrUnknownName is returned when a named data table lookup misses.
type ErrUnknownName struct {
	Name string
}

func (e *ErrUnknownName) Error() string {
	return fmt.Sprintf("unknown data label: %s", e.Name)
}

// NamedTable is the ordered label -> value mapping produced by the parser's
// .data section. Insertion order is significant: element i occupies word i
// of the memory region once loaded.
type NamedTable struct {
	order  []string
	values map[string]int32
}

// NewNamedTable creates an empty named data table.
func NewNamedTable() *NamedTable {
	return &NamedTable{values: make(map[string]int32)}
}

// Set inserts or updates a named value, appending to insertion order only
// the first time the name is seen.
func (t *NamedTable) Set(name string, value int32) {
	if _, exists := t.values[name]; !exists {
		t.order = append(t.order, name)
	}
	t.values[name] = value
}

// Len returns the number of distinct names in the table.
func (t *NamedTable) Len() int { return len(t.order) }

// Names returns the names in insertion order.
func (t *NamedTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// IndexOf returns the word index a name occupies once loaded, i.e. its
// position in insertion order.
func (t *NamedTable) IndexOf(name string) (int, bool) {
	for i, n := range t.order {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Value returns the value initially associated with name.
func (t *NamedTable) Value(name string) (int32, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Region is the contiguous word-addressed memory region described by the
// spec: a base byte address B and a word count N, with a primary range
// [B, B+4N) and a legacy fallback range [0, B) sharing the same backing
// array.
type Region struct {
	base  uint32
	words []uint32
	names *NamedTable
}

// NewRegion creates a memory region with the given base address and word
// count, all words initialized to zero.
func NewRegion(base uint32, wordCount int) *Region {
	return &Region{
		base:  base,
		words: make([]uint32, wordCount),
	}
}

// NewDefaultRegion creates a region using the spec's default base address
// and size (0x10010000, 128 words / 512 bytes).
func NewDefaultRegion() *Region {
	return NewRegion(DefaultBaseAddress, DefaultWordCount)
}

// index resolves a byte address to a word index using the dual
// primary/fallback addressing policy, or fails.
func (r *Region) index(addr uint32) (int, error) {
	if addr%4 != 0 {
		return 0, &ErrUnalignedAccess{Address: addr}
	}

	n := uint32(len(r.words))

	// Primary region: [base, base+4N)
	if addr >= r.base && addr < r.base+4*n {
		return int((addr - r.base) / 4), nil
	}

	// Fallback region: [0, base), restricted to the same N-word array.
	if addr < r.base {
		idx := addr / 4
		if idx < n {
			return int(idx), nil
		}
	}

	return 0, &ErrOutOfBounds{Address: addr}
}

// ReadWord reads the 32-bit word at the given byte address.
func (r *Region) ReadWord(addr uint32) (uint32, error) {
	idx, err := r.index(addr)
	if err != nil {
		return 0, err
	}
	return r.words[idx], nil
}

// WriteWord writes the 32-bit word at the given byte address.
func (r *Region) WriteWord(addr uint32, value uint32) error {
	idx, err := r.index(addr)
	if err != nil {
		return err
	}
	r.words[idx] = value
	return nil
}

// Base returns the region's configured base address.
func (r *Region) Base() uint32 { return r.base }

// WordCount returns the number of words backing the region.
func (r *Region) WordCount() int { return len(r.words) }

// LoadNamed installs a named data table into memory starting at word index
// 0, one word per entry in insertion order, and retains the table for
// LookupNamed/SetNamed.
func (r *Region) LoadNamed(table *NamedTable) {
	r.names = table
	for i, name := range table.Names() {
		if i >= len(r.words) {
			break
		}
		v, _ := table.Value(name)
		r.words[i] = uint32(v)
	}
}

// LookupNamed returns the current value at the word assigned to name.
func (r *Region) LookupNamed(name string) (uint32, error) {
	if r.names == nil {
		return 0, &ErrUnknownName{Name: name}
	}
	idx, ok := r.names.IndexOf(name)
	if !ok || idx >= len(r.words) {
		return 0, &ErrUnknownName{Name: name}
	}
	return r.words[idx], nil
}

// SetNamed updates the word assigned to name.
func (r *Region) SetNamed(name string, value uint32) error {
	if r.names == nil {
		return &ErrUnknownName{Name: name}
	}
	idx, ok := r.names.IndexOf(name)
	if !ok || idx >= len(r.words) {
		return &ErrUnknownName{Name: name}
	}
	r.words[idx] = value
	return nil
}

// Snapshot returns the ordered sequence of words for display, starting at
// the region's base address.
func (r *Region) Snapshot() []uint32 {
	out := make([]uint32, len(r.words))
	copy(out, r.words)
	return out
}

// Reset clears every word to zero and forgets the loaded named table.
func (r *Region) Reset() {
	for i := range r.words {
		r.words[i] = 0
	}
	r.names = nil
}
