package proxy

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// CaptchaHandler forwards CAPTCHA tokens to the verification service.
// It is a stateless relay, it never interprets the verification result.
type CaptchaHandler struct {
	secret    string
	verifyURL string
	client    *http.Client
}

func NewCaptchaHandler(secret, verifyURL string, client *http.Client) *CaptchaHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &CaptchaHandler{
		secret:    secret,
		verifyURL: verifyURL,
		client:    client,
	}
}

type captchaRequest struct {
	Token string `json:"token"`
}

func (h *CaptchaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is allowed")
		return
	}

	var req captchaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "missing_token", "token is required")
		return
	}

	if h.secret == "" {
		// misconfiguration, never leak config state to the caller
		log.Printf("captcha proxy: verification secret is not configured")
		respondError(w, http.StatusInternalServerError, "server_error", "server configuration error")
		return
	}

	form := url.Values{
		"secret":   {h.secret},
		"response": {req.Token},
	}
	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("captcha proxy: building upstream request failed: %v", err)
		respondError(w, http.StatusBadGateway, "upstream_error", "verification service unavailable")
		return
	}
	upstream.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(upstream)
	if err != nil {
		log.Printf("captcha proxy: upstream request failed: %v", err)
		respondError(w, http.StatusBadGateway, "upstream_error", "verification service unavailable")
		return
	}
	defer resp.Body.Close()

	relayJSON(w, resp)
}
