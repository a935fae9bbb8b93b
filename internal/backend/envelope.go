// internal/backend/envelope.go
package backend

import (
	"bytes"
	"encoding/json"
)

// The backend wraps payloads inconsistently: the real body may sit under a
// "data" key (sometimes more than one level deep), lists may arrive bare or
// under "content"/"items", and totals under "totalElements"/"total". The
// helpers here perform that case analysis once so callers always see the
// same normalized shape.

// unwrapData recursively strips {"data": ...} envelopes and returns the
// innermost payload. Non-object payloads pass through untouched.
func unwrapData(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return raw
	}
	if data, ok := obj["data"]; ok {
		return unwrapData(data)
	}
	return raw
}

// isBusinessFailure reports whether the body flags a business-level failure
// (success:false) despite the HTTP status.
func isBusinessFailure(raw json.RawMessage) bool {
	var probe struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Success != nil && !*probe.Success
}

type listEnvelope struct {
	Content       json.RawMessage `json:"content"`
	Items         json.RawMessage `json:"items"`
	TotalElements *int            `json:"totalElements"`
	Total         *int            `json:"total"`
}

// splitList normalizes the backend's list shapes. It returns the raw item
// array (the payload itself when it is a bare array) and, when the envelope
// carried one, the reported total. Callers fall back to the item count when
// total is nil.
func splitList(raw json.RawMessage) (json.RawMessage, *int) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("[]"), nil
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return json.RawMessage("[]"), nil
	}

	items := env.Content
	if items == nil {
		items = env.Items
	}
	if items == nil {
		items = json.RawMessage("[]")
	}

	total := env.TotalElements
	if total == nil {
		total = env.Total
	}
	return items, total
}
