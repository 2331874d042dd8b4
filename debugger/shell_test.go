package debugger

import (
	"testing"

	"github.com/lookbusy1344/mips-sim/config"
	"github.com/lookbusy1344/mips-sim/memory"
	"github.com/lookbusy1344/mips-sim/orchestrator"
)

func newTestShell(cfg *config.Config) *Shell {
	m := orchestrator.NewMachine(memory.DefaultBaseAddress, memory.DefaultWordCount, cfg.Execution.TextBase)
	return NewShell(m, "", cfg)
}

func TestPushHistoryTrimsToConfiguredSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Debugger.HistorySize = 3
	s := newTestShell(cfg)

	for _, line := range []string{"one", "two", "three", "four"} {
		s.pushHistory(line)
	}

	if len(s.logHistory) != 3 {
		t.Fatalf("len(logHistory) = %d, want 3", len(s.logHistory))
	}
	want := []string{"two", "three", "four"}
	for i, line := range want {
		if s.logHistory[i] != line {
			t.Errorf("logHistory[%d] = %q, want %q", i, s.logHistory[i], line)
		}
	}
}

func TestPushHistoryUnboundedWhenSizeIsZero(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Debugger.HistorySize = 0
	s := newTestShell(cfg)

	for i := 0; i < 10; i++ {
		s.pushHistory("line")
	}

	if len(s.logHistory) != 10 {
		t.Fatalf("len(logHistory) = %d, want 10", len(s.logHistory))
	}
}

func TestFormatValueHex(t *testing.T) {
	cfg := config.DefaultConfig()
	s := newTestShell(cfg)

	if got, want := s.formatValue(0xBEEF), "0x0000BEEF"; got != want {
		t.Errorf("formatValue = %q, want %q", got, want)
	}
}

func TestFormatValueDec(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.NumberFormat = "dec"
	s := newTestShell(cfg)

	if got, want := s.formatValue(42), "42"; got != want {
		t.Errorf("formatValue = %q, want %q", got, want)
	}
}

func TestFormatValueBinary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.NumberFormat = "binary"
	s := newTestShell(cfg)

	want := "00000000000000000000000000000101"
	if got := s.formatValue(5); got != want {
		t.Errorf("formatValue = %q, want %q", got, want)
	}
}

func TestNewShellUsesConfiguredTextBase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Execution.TextBase = 0x00500000
	m := orchestrator.NewMachine(memory.DefaultBaseAddress, memory.DefaultWordCount, cfg.Execution.TextBase)
	NewShell(m, "", cfg)

	m.Load(".text\nmain:\naddi $t0, $zero, 1\n")
	instrs := m.Instructions()
	if len(instrs) != 1 || instrs[0].Address != 0x00500000 {
		t.Fatalf("instruction address = %#x, want %#x", instrs[0].Address, uint32(0x00500000))
	}
}
