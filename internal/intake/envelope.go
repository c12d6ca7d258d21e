// Package intake feeds URLs into the ingestion pipeline from NATS
// messages and CSV batch files.
package intake

import (
	"encoding/json"
	"strings"
)

// ParseEnvelope extracts the URL from an intake payload. Payloads arrive
// in three shapes, tried in order:
//
//	{"value": {"url": "..."}}   event envelope
//	{"url": "..."}              bare object
//	https://...                 raw URL string
//
// The raw payload is returned as the URL literal when neither JSON shape
// matches; the pipeline's own URL validation decides its fate.
func ParseEnvelope(data []byte) string {
	var wrapped struct {
		Value struct {
			URL string `json:"url"`
		} `json:"value"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if wrapped.Value.URL != "" {
			return wrapped.Value.URL
		}
		if wrapped.URL != "" {
			return wrapped.URL
		}
	}
	return strings.TrimSpace(string(data))
}
