package proxy

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/WasepSKT/commerce-web-sub003/internal/ratelimit"
)

// RefreshHandler forwards refresh tokens to the auth provider's token
// endpoint using the service-role credential, with a per-IP sliding
// window limit in front of it.
type RefreshHandler struct {
	tokenURL   string
	serviceKey string
	limiter    ratelimit.Limiter
	client     *http.Client
}

func NewRefreshHandler(tokenURL, serviceKey string, limiter ratelimit.Limiter, client *http.Client) *RefreshHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &RefreshHandler{
		tokenURL:   tokenURL,
		serviceKey: serviceKey,
		limiter:    limiter,
		client:     client,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is allowed")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "missing_refresh_token", "refresh_token is required")
		return
	}

	if h.serviceKey == "" {
		log.Printf("refresh proxy: service key is not configured")
		respondError(w, http.StatusInternalServerError, "server_error", "server configuration error")
		return
	}

	allowed, err := h.limiter.Allow(r.Context(), clientIP(r))
	if err != nil {
		// fail open: a broken limiter must not take the endpoint down
		log.Printf("refresh proxy: rate limiter failed, allowing request: %v", err)
	} else if !allowed {
		respondError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
		return
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: req.RefreshToken})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "server_error", "server configuration error")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.tokenURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("refresh proxy: failed to build upstream request: %v", err)
		respondError(w, http.StatusInternalServerError, "server_error", "server configuration error")
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("apikey", h.serviceKey)
	upstreamReq.Header.Set("Authorization", "Bearer "+h.serviceKey)

	resp, err := h.client.Do(upstreamReq)
	if err != nil {
		log.Printf("refresh proxy: upstream request failed: %v", err)
		respondError(w, http.StatusBadGateway, "upstream_error", "auth service unavailable")
		return
	}
	defer resp.Body.Close()

	relayJSON(w, resp)
}
