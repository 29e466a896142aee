package proxy

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// relayJSON copies the upstream status and JSON body to the client.
// A body that is not valid JSON counts as an upstream failure.
func relayJSON(w http.ResponseWriter, resp *http.Response) {
	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("failed to decode upstream response: %v", err)
		respondError(w, http.StatusBadGateway, "upstream_error", "upstream service returned an invalid response")
		return
	}
	respondJSON(w, resp.StatusCode, body)
}

// clientIP prefers the first X-Forwarded-For hop, the address the edge
// proxy saw, over the immediate peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
