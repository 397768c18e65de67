// Package extras overlays caller-supplied raw parameters onto a wire payload.
package extras

import "encoding/json"

// Apply marshals payload and merges extra keys into the resulting JSON
// object. Extra keys win over payload fields of the same name, so callers
// can override anything the typed request sets.
func Apply(payload any, extra map[string]any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil || len(extra) == 0 {
		return body, err
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		fields[k] = v
	}
	return json.Marshal(fields)
}
