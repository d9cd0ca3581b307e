// Package service holds the domain API modules: thin typed request builders
// over the transport client, one per backend resource. Beyond the
// legacy-route fallback they carry no logic of their own; the backend is
// authoritative for every business rule.
package service

import "encoding/json"

// asList tolerates the three list envelopes backend versions have produced:
// a bare array, {"items": [...]} and {"data": [...]}. Anything else decodes
// to an empty slice.
func asList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}

	var direct []T
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}

	var wrapped struct {
		Items []T `json:"items"`
		Data  []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Items != nil {
			return wrapped.Items
		}
		if wrapped.Data != nil {
			return wrapped.Data
		}
	}
	return []T{}
}
