package protocol

import "encoding/json"

// SchemaTag identifies the snapshot format version shared by every
// ecosysx engine backend.
const SchemaTag = "GENX_SNAP_V1"

// TimeModelTag identifies the tick-to-wall-time convention: one tick is
// one simulated hour.
const TimeModelTag = "TIME_V1"

// Request (host -> engine), one JSON object per input line.
type Request struct {
	Op string `json:"op"`

	// init
	Cfg  json.RawMessage `json:"cfg,omitempty"`
	Seed json.RawMessage `json:"seed,omitempty"`

	// step
	N json.RawMessage `json:"n,omitempty"`

	// snapshot
	Kind string `json:"kind,omitempty"`

	// Echoed back verbatim on the response when present.
	ID json.RawMessage `json:"id,omitempty"`
}

// Response (engine -> host), one JSON object per output line. Exactly one
// response per request; field presence depends on the op.
type Response struct {
	OK    *bool  `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`

	Tick     *uint64       `json:"tick,omitempty"`
	Snapshot *Snapshot     `json:"snapshot,omitempty"`
	Provider *ProviderInfo `json:"provider,omitempty"`

	ID json.RawMessage `json:"id,omitempty"`
}

// Snapshot is the point-in-time projection returned by the snapshot op.
// Field names are wire-compatible across engine backends.
type Snapshot struct {
	Schema    string       `json:"schema"`
	TimeModel string       `json:"timeModel"`
	Tick      uint64       `json:"tick"`
	BuildHash string       `json:"buildHash"`
	RNGDigest string       `json:"rngDigest"`
	SimDigest string       `json:"simDigest"`
	Metrics   Metrics      `json:"metrics"`
	Provider  ProviderInfo `json:"provider"`

	// Present only for kind="full".
	State *FullState `json:"state,omitempty"`
}

type Metrics struct {
	Pop        int        `json:"pop"`
	EnergyMean float64    `json:"energyMean"`
	SIR        SIRBuckets `json:"sir"`
}

type SIRBuckets struct {
	S int `json:"S"`
	I int `json:"I"`
	R int `json:"R"`
}

type ProviderInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	License string `json:"license"`

	// Included by the info op; omitted inside snapshots, which carry the
	// build hash at the top level.
	BuildHash string `json:"buildHash,omitempty"`
}

type FullState struct {
	Agents      []AgentState     `json:"agents"`
	Environment EnvironmentState `json:"environment"`
}

type AgentState struct {
	ID          uint64  `json:"id"`
	Position    Vec2    `json:"position"`
	Velocity    Delta2  `json:"velocity"`
	Energy      float64 `json:"energy"`
	SIRState    int     `json:"sirState"`
	DaysInState float64 `json:"daysInState"`
	AgeTicks    uint64  `json:"ageTicks"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Delta2 struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type EnvironmentState struct {
	ResourceGrid []float64 `json:"resourceGrid"`
	Tick         uint64    `json:"tick"`
}
