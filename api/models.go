// Package api exposes an orchestrator.Machine over HTTP and WebSocket: the
// networked analogue of the debugger's callback-driven refresh, for a
// remote front-end that loads a program, steps it, and watches PC/log
// events arrive as they happen.
package api

// LoadRequest is the body of POST /api/v1/load.
type LoadRequest struct {
	Source string `json:"source"`
}

// LoadResponse reports whether the loaded program parsed cleanly.
type LoadResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// StateResponse is the body of GET /api/v1/state: a full snapshot of the
// orchestrator's pull interface.
type StateResponse struct {
	State        string             `json:"state"`
	PC           uint32             `json:"pc"`
	Registers    []RegisterEntry    `json:"registers"`
	Memory       []uint32           `json:"memory"`
	Instructions []InstructionEntry `json:"instructions"`
}

// RegisterEntry mirrors orchestrator.RegisterValue for JSON transport.
type RegisterEntry struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	Value  uint32 `json:"value"`
}

// InstructionEntry mirrors orchestrator.InstructionEntry for JSON transport.
type InstructionEntry struct {
	Address uint32 `json:"address"`
	Source  string `json:"source"`
}

// MachineCodeEntry is one line of GET /api/v1/machine-code's response.
type MachineCodeEntry struct {
	Source  string `json:"source"`
	Encoded string `json:"encoded,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// EventType distinguishes the two kinds of event the broadcaster pushes.
type EventType string

const (
	// EventPC fires once per orchestrator.Machine.Step callback invocation
	// of OnPCChange, carrying the new program counter.
	EventPC EventType = "pc"
	// EventLog fires once per OnLog callback invocation, carrying one log
	// line.
	EventLog EventType = "log"
)

// BroadcastEvent is the JSON frame pushed to every connected WebSocket
// client.
type BroadcastEvent struct {
	Type EventType `json:"type"`
	PC   uint32    `json:"pc,omitempty"`
	Line string    `json:"line,omitempty"`
}
