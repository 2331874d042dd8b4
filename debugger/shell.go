// Package debugger implements an interactive terminal shell over an
// orchestrator.Machine, built on tview/tcell. It is a pure consumer of the
// orchestrator's public surface: it never reaches into vm, parser, or
// encoder internals directly.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/mips-sim/config"
	"github.com/lookbusy1344/mips-sim/orchestrator"
)

// Shell is the text user interface: source/instruction list, registers,
// memory, and a scrolling log, driven by key bindings.
type Shell struct {
	Machine *orchestrator.Machine
	Source  string

	historySize  int
	numberFormat string
	logHistory   []string

	App   *tview.Application
	Pages *tview.Pages

	InstructionView *tview.TextView
	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	LogView         *tview.TextView
}

// NewShell creates a shell over machine, wiring its panels to the
// orchestrator's OnPCChange/OnLog callbacks. source is the program text to
// (re)load on startup or on 'r'. cfg supplies the log's retained history
// length (cfg.Debugger.HistorySize) and the register/memory panels' number
// format (cfg.Display.NumberFormat: "hex", "dec", or "binary").
func NewShell(machine *orchestrator.Machine, source string, cfg *config.Config) *Shell {
	s := &Shell{
		Machine:      machine,
		Source:       source,
		historySize:  cfg.Debugger.HistorySize,
		numberFormat: cfg.Display.NumberFormat,
		App:          tview.NewApplication(),
	}

	s.initializeViews()
	s.buildLayout()
	s.setupKeyBindings()

	machine.SetCallbacks(s.onPCChange, s.onLog)

	return s
}

func (s *Shell) initializeViews() {
	s.InstructionView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	s.InstructionView.SetBorder(true).SetTitle(" Instructions ")

	s.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	s.RegisterView.SetBorder(true).SetTitle(" Registers ")

	s.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	s.MemoryView.SetBorder(true).SetTitle(" Memory ")

	s.LogView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	s.LogView.SetBorder(true).SetTitle(" Log (n=step  r=reload  q=quit) ")
}

func (s *Shell) buildLayout() {
	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(s.InstructionView, 0, 2, false).
		AddItem(s.LogView, 0, 1, false)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(s.RegisterView, 0, 1, false).
		AddItem(s.MemoryView, 0, 1, false)

	main := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)

	s.Pages = tview.NewPages().AddPage("main", main, true, true)
}

func (s *Shell) setupKeyBindings() {
	s.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Rune() == 'n' || event.Key() == tcell.KeyF10:
			s.step()
			return nil
		case event.Rune() == 'r':
			s.reload()
			return nil
		case event.Rune() == 'q':
			s.App.Stop()
			return nil
		}
		return event
	})
}

// step lets the orchestrator's own callbacks (queued onto the tview event
// loop) repaint the panels; no separate refresh is needed here.
func (s *Shell) step() {
	s.Machine.Step()
}

func (s *Shell) reload() {
	s.logHistory = nil
	s.Machine.Load(s.Source)
	s.refresh()
}

// onPCChange and onLog are the orchestrator's callbacks. They run after
// Machine.mu has been released (see orchestrator.Machine.drainAndFire), so
// refresh is free to call back into the orchestrator's own read methods.
func (s *Shell) onPCChange(pc uint32) {
	s.App.QueueUpdateDraw(s.refresh)
}

func (s *Shell) onLog(line string) {
	s.App.QueueUpdateDraw(func() {
		s.pushHistory(line)
		s.LogView.SetText(strings.Join(s.logHistory, "\n"))
		s.LogView.ScrollToEnd()
	})
}

// pushHistory appends line to the retained log, trimming the oldest
// entries once historySize is exceeded. A zero or negative historySize
// means unbounded; config.DefaultConfig sets it to 500 lines.
func (s *Shell) pushHistory(line string) {
	s.logHistory = append(s.logHistory, line)
	if s.historySize > 0 && len(s.logHistory) > s.historySize {
		s.logHistory = s.logHistory[len(s.logHistory)-s.historySize:]
	}
}

// formatValue renders v per the shell's configured number format.
func (s *Shell) formatValue(v uint32) string {
	switch s.numberFormat {
	case "dec":
		return strconv.FormatUint(uint64(v), 10)
	case "binary":
		return fmt.Sprintf("%032b", v)
	default:
		return fmt.Sprintf("0x%08X", v)
	}
}

// refresh repaints the instruction, register, and memory panels from the
// orchestrator's current pull-interface snapshot.
func (s *Shell) refresh() {
	pc := s.Machine.ProgramCounter()

	var instrLines []string
	for _, instr := range s.Machine.Instructions() {
		marker := "  "
		if instr.Address == pc {
			marker = "> "
		}
		instrLines = append(instrLines, fmt.Sprintf("%s%s  %s", marker, s.formatValue(instr.Address), instr.Source))
	}
	s.InstructionView.SetText(strings.Join(instrLines, "\n"))

	var regLines []string
	for _, r := range s.Machine.RegisterValues() {
		regLines = append(regLines, fmt.Sprintf("%-5s (%2d) = %s", r.Name, r.Number, s.formatValue(r.Value)))
	}
	s.RegisterView.SetText(strings.Join(regLines, "\n"))

	var memLines []string
	for i, word := range s.Machine.MemorySnapshot() {
		memLines = append(memLines, fmt.Sprintf("[%3d] %s", i, s.formatValue(word)))
	}
	s.MemoryView.SetText(strings.Join(memLines, "\n"))
}

// Run loads the shell's source and blocks running the tview application
// until the user quits.
func (s *Shell) Run() error {
	s.reload()
	return s.App.SetRoot(s.Pages, true).EnableMouse(true).Run()
}
