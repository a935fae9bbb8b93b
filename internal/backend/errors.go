// internal/backend/errors.go
package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned when any backend call answers 401. The client
// also fires the registered forced-logout callback before returning it.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError is a business-rule failure reported by the backend: a non-2xx
// response with a structured body, or success:false at HTTP 200.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ExtractMessage digs a human-readable error message out of a response body.
// It tries, in order: a plain string body, a top-level "message", a top-level
// "error", the recursively nested "data" payload, and the common field-error
// shapes (fieldErrors, violations, details, errors as string list, object
// list, or map of lists). Multiple messages are joined with newlines. When
// nothing matches, fallback is returned.
func ExtractMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return fallback
	}
	if message := extract(value); message != "" {
		return message
	}
	return fallback
}

func extract(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		return extractFromObject(v)
	default:
		return ""
	}
}

func extractFromObject(obj map[string]interface{}) string {
	if message, ok := obj["message"].(string); ok && message != "" {
		return message
	}
	if errMsg, ok := obj["error"].(string); ok && errMsg != "" {
		return errMsg
	}

	// Look deeper into nested data
	if nested, ok := obj["data"]; ok {
		if message := extract(nested); message != "" {
			return message
		}
	}

	// Common validation shapes
	if list, ok := obj["fieldErrors"].([]interface{}); ok {
		if msgs := fieldMessages(list); len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	}
	if list, ok := obj["details"].([]interface{}); ok {
		if msgs := plainMessages(list); len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	}
	if list, ok := obj["violations"].([]interface{}); ok {
		if msgs := fieldMessages(list); len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	}

	switch errs := obj["errors"].(type) {
	case []interface{}:
		if msgs := plainMessages(errs); len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	case map[string]interface{}:
		var msgs []string
		for _, nested := range errs {
			if list, ok := nested.([]interface{}); ok {
				msgs = append(msgs, plainMessages(list)...)
			} else if msg := messageOf(nested); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	}

	return ""
}

// fieldMessages renders entries that may carry a field name, as
// "field: message".
func fieldMessages(list []interface{}) []string {
	var msgs []string
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		field, _ := entry["field"].(string)
		message, _ := entry["message"].(string)
		switch {
		case field != "":
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, message))
		case message != "":
			msgs = append(msgs, message)
		}
	}
	return msgs
}

// plainMessages renders entries that are either strings or objects with a
// "message" field.
func plainMessages(list []interface{}) []string {
	var msgs []string
	for _, item := range list {
		if msg := messageOf(item); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func messageOf(item interface{}) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]interface{}:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	return ""
}
