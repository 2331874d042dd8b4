package api

import (
	"net/http"
)

// handleLoad handles POST /api/v1/load: parses and installs source into
// the machine, returning any per-line parse errors without failing the
// request (a partially-skipped program still loads and can be stepped).
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoadRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := LoadResponse{Success: true}
	if errs := s.machine.Load(req.Source); errs != nil {
		resp.Success = false
		for _, e := range errs.Errors {
			resp.Errors = append(resp.Errors, e.Error())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStep handles POST /api/v1/step: advances the machine by exactly
// one instruction. PC-change and log events reach WebSocket clients via
// the broadcaster, not this response.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.machine.Step()
	writeJSON(w, http.StatusOK, map[string]any{"state": string(s.machine.State())})
}

// handleState handles GET /api/v1/state: a full snapshot of the
// orchestrator's pull interface.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	regs := s.machine.RegisterValues()
	registers := make([]RegisterEntry, len(regs))
	for i, reg := range regs {
		registers[i] = RegisterEntry{Name: reg.Name, Number: reg.Number, Value: reg.Value}
	}

	instrs := s.machine.Instructions()
	instructions := make([]InstructionEntry, len(instrs))
	for i, instr := range instrs {
		instructions[i] = InstructionEntry{Address: instr.Address, Source: instr.Source}
	}

	writeJSON(w, http.StatusOK, StateResponse{
		State:        string(s.machine.State()),
		PC:           s.machine.ProgramCounter(),
		Registers:    registers,
		Memory:       s.machine.MemorySnapshot(),
		Instructions: instructions,
	})
}

// handleMachineCode handles GET /api/v1/machine-code: the Convert output,
// one entry per instruction in the currently loaded program.
func (s *Server) handleMachineCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := s.machine.Convert()
	out := make([]MachineCodeEntry, len(entries))
	for i, e := range entries {
		out[i] = MachineCodeEntry{Source: e.Source, Encoded: e.Encoded}
		if e.Err != nil {
			out[i].Error = e.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}
