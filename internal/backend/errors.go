package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-2xx reply from a backend service.
type StatusError struct {
	Service    string
	StatusCode int
	// Message is the server's "error" field (with "details" appended when
	// present), or a trimmed copy of a non-JSON body.
	Message string
}

func (e *StatusError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message == "" {
		return fmt.Sprintf("%s service returned %s", e.Service, status)
	}
	return fmt.Sprintf("%s service returned %s: %s", e.Service, status, e.Message)
}

// errorMessage extracts {"error": ..., "details": ...} from a failed reply.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		if payload.Details != "" {
			return payload.Error + " (" + payload.Details + ")"
		}
		return payload.Error
	}

	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "<") {
		// HTML error pages are noise in a terminal.
		return ""
	}
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
