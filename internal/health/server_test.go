package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandleHealth(t *testing.T) {
	s := NewServer("0")
	s.startedAt = time.Now().Add(-90 * time.Second)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body struct {
		Status        string `json:"status"`
		Bot           string `json:"bot"`
		UptimeSeconds int    `json:"uptime_seconds"`
		Uptime        string `json:"uptime"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.UptimeSeconds < 90 {
		t.Errorf("uptime_seconds = %d, want >= 90", body.UptimeSeconds)
	}
	if body.Uptime != "0:01:30" && body.Uptime != "0:01:31" {
		t.Errorf("uptime = %q, want 0:01:30", body.Uptime)
	}
}

func TestHandleRoot(t *testing.T) {
	s := NewServer("0")

	rec := httptest.NewRecorder()
	s.handleRoot(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GET /health") {
		t.Errorf("root page %q does not list the health endpoint", rec.Body.String())
	}
}

func TestHandleRoot_UnknownPath(t *testing.T) {
	s := NewServer("0")

	rec := httptest.NewRecorder()
	s.handleRoot(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00:00"},
		{59 * time.Second, "0:00:59"},
		{61 * time.Minute, "1:01:00"},
		{25*time.Hour + 5*time.Second, "25:00:05"},
	}

	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
