package engine

import "encoding/json"

// Marshal serializes the round to JSON. The state is a flat value type, so
// the default encoding round-trips exactly.
func (r *RoundState) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal restores a round previously produced by Marshal.
func Unmarshal(data []byte) (RoundState, error) {
	var r RoundState
	err := json.Unmarshal(data, &r)
	return r, err
}
