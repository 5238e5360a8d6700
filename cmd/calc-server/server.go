package main

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/njchilds90/gocalc"
	"github.com/njchilds90/gocalc/history"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20 // 1 MiB

type server struct {
	tools   *gocalc.ToolHandler
	history history.Store
	limiter *rate.Limiter
	log     log.FieldLogger
}

// newServer wires the tool handler to a history store. A nil limiter
// disables throttling.
func newServer(tools *gocalc.ToolHandler, store history.Store, limiter *rate.Limiter, logger log.FieldLogger) *server {
	return &server{tools: tools, history: store, limiter: limiter, log: logger}
}

// handle runs one tool call and records calculator input in the history.
func (s *server) handle(ctx context.Context, req gocalc.ToolRequest) gocalc.ToolResponse {
	resp := s.tools.Handle(req)
	if req.Tool != "calculate" || s.history == nil {
		return resp
	}
	input, _ := req.Params["input"].(string)
	entry := history.Entry{Input: input, Output: resp.String, Failed: resp.Error != ""}
	if entry.Output == "" {
		entry.Output = "Error: " + resp.Error
	}
	if _, err := s.history.Append(ctx, entry); err != nil {
		s.log.WithError(err).Warn("Failed to record history")
	}
	return resp
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", s.handleTool)
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/history", s.handleHistory)
	return s.accessLog(s.throttle(mux))
}

func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.WithField("panic", rec).Errorf("panic in /tool\n%s", debug.Stack())
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req gocalc.ToolRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	writeJSON(w, http.StatusOK, s.handle(r.Context(), req))
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, gocalc.ToolSpec())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /history?limit=N lists recent calculations, newest first.
// DELETE /history clears them.
func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
				return
			}
			limit = n
		}
		entries, err := s.history.Recent(r.Context(), limit)
		if err != nil {
			s.log.WithError(err).Error("Failed to read history")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
	case http.MethodDelete:
		if err := s.history.Clear(r.Context()); err != nil {
			s.log.WithError(err).Error("Failed to clear history")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) throttle(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("Request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
