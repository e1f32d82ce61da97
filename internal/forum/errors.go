package forum

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformed marks a response body that does not have an expected shape.
var ErrMalformed = errors.New("malformed response")

// APIError is a non-2xx response. Code and Detail come from the backend's
// {"error": ..., "detail": ...} payload when one is present.
type APIError struct {
	Status int
	Path   string
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, msg)
}

// Message is the backend's human-readable explanation, if any.
func (e *APIError) Message() string {
	switch {
	case e.Code != "" && e.Detail != "" && e.Code != e.Detail:
		return e.Code + ": " + e.Detail
	case e.Code != "":
		return e.Code
	default:
		return e.Detail
	}
}

func newAPIError(status int, path string, body []byte) *APIError {
	apiErr := &APIError{Status: status, Path: path}
	var payload struct {
		Error  any `json:"error"`
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = flattenMessage(payload.Error)
		apiErr.Detail = flattenMessage(payload.Detail)
	}
	return apiErr
}

// flattenMessage renders the loosely typed DRF error values (string, list
// of strings, or field map) as one line.
func flattenMessage(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := flattenMessage(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := flattenMessage(val[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(val)
	}
}
