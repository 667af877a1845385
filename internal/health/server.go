// Package health serves the liveness endpoint hosting platforms poll.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avrudenko/lingvobot/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	startedAt  time.Time
}

func NewServer(port string) *Server {
	s := &Server{startedAt: time.Now()}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the listener in its own goroutine and returns immediately.
func (s *Server) Start() {
	go func() {
		logger.Info("Health server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server failed", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.startedAt)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"bot":            "telegram-translation-bot",
		"uptime_seconds": int(uptime.Seconds()),
		"uptime":         formatUptime(uptime),
		"timestamp":      time.Now().Format(time.RFC3339),
		"message":        "Bot is running",
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, "🤖 Telegram Translation Bot\n"+
		"Status: Running\n"+
		"\n"+
		"Endpoints:\n"+
		"  GET /health - Health check (JSON)\n"+
		"  GET / - This page\n")
}

// formatUptime renders a duration as HH:MM:SS.
func formatUptime(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}
