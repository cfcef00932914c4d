package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/crmarques/cortexops/warehouse"
)

// decodeResult tolerates the agent API's loose reply shapes: an empty body
// on a successful status is a synthetic acknowledgment, and a non-JSON body
// is wrapped with a raw-text preview rather than rejected.
func decodeResult(body []byte) warehouse.Result {
	if len(bytes.TrimSpace(body)) == 0 {
		return warehouse.Result{
			"status":  "success",
			"message": "agent operation completed (empty response)",
		}
	}

	var document any
	if err := json.Unmarshal(body, &document); err != nil {
		return warehouse.Result{
			"status":       "success",
			"message":      "operation completed",
			"raw_response": summarizeBody(body),
		}
	}

	if typed, ok := document.(map[string]any); ok {
		return warehouse.Result(typed)
	}
	return warehouse.Result{"response": document}
}

func classifyStatusError(statusCode int, body []byte) error {
	message := fmt.Sprintf("remote request failed with status %d: %s", statusCode, summarizeBody(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return authError(message, nil)
	case http.StatusNotFound:
		return notFoundError(message, nil)
	case http.StatusConflict:
		return conflictError(message, nil)
	}

	return transportError(message, nil)
}

func summarizeBody(body []byte) string {
	const previewLimit = 512

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) <= previewLimit {
		return trimmed
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut] + "..."
}
