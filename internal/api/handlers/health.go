package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"qrlink/internal/engine/qrcode"
)

const healthProbeURL = "https://example.com"

type SessionCounter interface {
	Len() int
}

type HealthHandler struct {
	encoder  qrcode.Encoder
	sessions SessionCounter
}

func NewHealthHandler(encoder qrcode.Encoder, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{encoder: encoder, sessions: sessions}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	// Encode a fixed URL to prove the backend works.
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.encoder.Encode(ctx, healthProbeURL, qrcode.DefaultOptions); err != nil {
		checks["encoder"] = "unhealthy: " + err.Error()
	} else {
		checks["encoder"] = "healthy"
	}

	status := "healthy"
	for _, check := range checks {
		if len(check) >= 9 && check[:9] == "unhealthy" {
			status = "degraded"
			break
		}
	}

	response := struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Sessions  int               `json:"sessions"`
		Checks    map[string]string `json:"checks"`
	}{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Sessions:  h.sessions.Len(),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
