package devinfo

import (
	"encoding/json"
)

// Trace captures which steps of a resolution chain were consulted and which
// one produced the effective value.
type Trace struct {
	Value  string       `json:"value"`
	Origin string       `json:"origin,omitempty"`
	Steps  []Provenance `json:"steps"`
}

// Provenance details a single consulted step.
type Provenance struct {
	Index  int    `json:"index"`
	Origin string `json:"origin"`
	Value  string `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
