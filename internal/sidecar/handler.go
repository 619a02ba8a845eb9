// Package sidecar implements the line-delimited request/response protocol
// that drives the engine: one JSON request per input line, one JSON
// response per output line. Diagnostics go to a separate logger so the
// response channel is never corrupted.
package sidecar

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"ecosysx/internal/protocol"
	"ecosysx/internal/sim/config"
	"ecosysx/internal/sim/world"
)

// Handler owns the engine lifecycle for one protocol session. It is
// single-threaded: each request is executed to completion before the next
// line is read.
type Handler struct {
	log *log.Logger

	w *world.World

	policy world.DecisionPolicy
	onStep func(*protocol.Snapshot)
}

func NewHandler(logger *log.Logger) *Handler {
	return &Handler{log: logger}
}

// SetPolicy installs a decision policy applied to every engine the handler
// initializes.
func (h *Handler) SetPolicy(p world.DecisionPolicy) { h.policy = p }

// OnStep registers a hook invoked with a metrics snapshot after every
// successful step. Used by the observer feed; must not block.
func (h *Handler) OnStep(fn func(*protocol.Snapshot)) { h.onStep = fn }

// Run is the protocol loop. Unparseable lines and in-flight faults produce
// a structured error response and never terminate the loop; only a closed
// input stream ends the session (equivalent to an implicit stop).
func (h *Handler) Run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	// Full-state configs and replies fit comfortably; init lines with large
	// configs still need more than the default token size.
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	bw := bufio.NewWriter(out)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var req protocol.Request
		var resp protocol.Response
		if err := json.Unmarshal(line, &req); err != nil {
			h.log.Printf("malformed request line: %v", err)
			resp = errResponse(protocol.Errorf(protocol.CodeMalformedRequest, "malformed request: %v", err))
		} else {
			resp = h.dispatch(&req)
			resp.ID = req.ID
		}

		b, err := json.Marshal(resp)
		if err != nil {
			// Responses are built from plain structs; this is unreachable
			// short of memory corruption, but never crash the loop.
			h.log.Printf("encode response: %v", err)
			b = []byte(`{"ok":false,"error":"internal: response encoding failed"}`)
		}
		bw.Write(b)
		bw.WriteByte('\n')
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	h.w = nil
	return nil
}

// dispatch maps one request to one response. Faults inside an operation are
// recovered and reported as internal failures.
func (h *Handler) dispatch(req *protocol.Request) (resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Printf("panic in op %q: %v", req.Op, r)
			resp = errResponse(protocol.Errorf(protocol.CodeInternal, "internal failure in %s: %v", req.Op, r))
		}
	}()

	switch req.Op {
	case "init":
		return h.handleInit(req)
	case "step":
		return h.handleStep(req)
	case "snapshot":
		return h.handleSnapshot(req)
	case "stop":
		return h.handleStop()
	case "info":
		return h.handleInfo()
	default:
		return errResponse(protocol.Errorf(protocol.CodeInvalidArgument, "unknown operation %q", req.Op))
	}
}

func (h *Handler) handleInit(req *protocol.Request) protocol.Response {
	seed, err := intField(req.Seed)
	if err != nil {
		return errResponse(protocol.Errorf(protocol.CodeInvalidConfig, "seed must be an integer: %v", err))
	}

	cfg, err := config.Parse(req.Cfg)
	if err != nil {
		return errResponse(err)
	}

	h.w = world.New(cfg, seed)
	if h.policy != nil {
		h.w.SetPolicy(h.policy)
	}
	h.log.Printf("engine initialized: seed=%d pop=%d world=%d", seed,
		cfg.Simulation.PopulationSize, cfg.Simulation.WorldSize)
	return okResponse()
}

func (h *Handler) handleStep(req *protocol.Request) protocol.Response {
	if h.w == nil {
		return errResponse(protocol.ErrNotInitialized)
	}
	n := int64(1)
	if len(req.N) > 0 {
		var err error
		n, err = intField(req.N)
		if err != nil {
			return errResponse(protocol.Errorf(protocol.CodeInvalidArgument, "step count must be an integer: %v", err))
		}
	}
	if n <= 0 {
		return errResponse(protocol.Errorf(protocol.CodeInvalidArgument, "step count must be a positive integer, got %d", n))
	}

	tick, err := h.w.Step(int(n))
	if err != nil {
		return errResponse(err)
	}

	if h.onStep != nil {
		if snap, err := h.w.Snapshot(world.KindMetrics); err == nil {
			h.onStep(snap)
		}
	}
	return protocol.Response{Tick: &tick}
}

func (h *Handler) handleSnapshot(req *protocol.Request) protocol.Response {
	if h.w == nil {
		return errResponse(protocol.ErrNotInitialized)
	}
	snap, err := h.w.Snapshot(req.Kind)
	if err != nil {
		return errResponse(err)
	}
	return protocol.Response{Snapshot: snap}
}

// handleStop releases the engine. The session itself stays open so a host
// can re-init; hosts that are done simply close the pipe.
func (h *Handler) handleStop() protocol.Response {
	if h.w != nil {
		h.log.Printf("engine stopped at tick %d", h.w.Tick())
	}
	h.w = nil
	return okResponse()
}

func (h *Handler) handleInfo() protocol.Response {
	p := world.Provider()
	return protocol.Response{Provider: &p}
}

// intField decodes a JSON field that must be an integer; floats with a
// fractional part and non-numeric values are rejected.
func intField(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("not a number")
	}
	v, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	return v, nil
}

func okResponse() protocol.Response {
	ok := true
	return protocol.Response{OK: &ok}
}

func errResponse(err error) protocol.Response {
	ok := false
	return protocol.Response{OK: &ok, Error: err.Error()}
}
