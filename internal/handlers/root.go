package handlers

import (
	"net/http"
	"net/url"
)

type RootHandler struct {
	databaseURL string
	redisURL    string
}

func NewRootHandler(databaseURL, redisURL string) *RootHandler {
	return &RootHandler{databaseURL: databaseURL, redisURL: redisURL}
}

func (h *RootHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the AWS Tutor API"})
}

// Config reports which backing stores are configured, without credentials.
func (h *RootHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"database_url": redact(h.databaseURL),
		"redis_url":    redact(h.redisURL),
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func redact(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
