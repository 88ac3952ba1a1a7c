// Package web serves the chat JSON API over HTTP.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/corey/awmit/internal/domain/bank"
	"github.com/corey/awmit/internal/domain/engine"
	"github.com/corey/awmit/internal/logger"
)

// maxBodyBytes caps a chat request body.
const maxBodyBytes = 64 << 10

// Backend hands the server the engine to answer with. The engine may change
// between requests when content is reloaded.
type Backend interface {
	Engine() *engine.Engine
}

// Server serves the chat API.
type Server struct {
	backend  Backend
	log      *logger.Logger
	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	stopOnce sync.Once
}

// NewServer creates an HTTP server answering from backend.
func NewServer(backend Backend, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{backend: backend, log: log, started: time.Now()}
}

// Handler returns the routed API with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/chat/resolve", s.handleResolve)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /api/chips", s.handleChips)
	mux.HandleFunc("GET /api/courses", s.handleCourses)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s.withRequestLog(mux)
}

// Start begins listening on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("http serve", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpSrv.Shutdown(ctx); err != nil {
				s.log.Warn("http shutdown", "error", err)
			}
		}
	})
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the base URL of the API.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	port := s.listener.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://localhost:%d", port)
}

// chatRequest is the decoded body of POST /api/chat.
type chatRequest struct {
	Message         string
	PendingFollowUp *engine.FollowUpState
	ModuleSlug      string
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeObject(w, r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, engine.NoMatch())
		return
	}
	req := chatRequest{
		Message:         stringField(fields, "message"),
		PendingFollowUp: pendingField(fields, "pendingFollowUp"),
		ModuleSlug:      stringField(fields, "moduleSlug"),
	}
	resp := s.backend.Engine().Resolve(req.Message, req.PendingFollowUp, req.ModuleSlug)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeObject(w, r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, engine.NoMatch())
		return
	}
	resp := s.backend.Engine().ResolveByAnswerID(stringField(fields, "answerId"))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = 0
	}
	out := s.backend.Engine().Autocomplete(q.Get("q"), q.Get("module"), limit)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChips(w http.ResponseWriter, r *http.Request) {
	chips := s.backend.Engine().Registry().Chips()
	if chips == nil {
		chips = []bank.Chip{}
	}
	writeJSON(w, http.StatusOK, chips)
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	courses := s.backend.Engine().Registry().Courses()
	if courses == nil {
		courses = []bank.CourseRef{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// HealthResult is the response for GET /api/health.
type HealthResult struct {
	Status string     `json:"status"`
	Stats  bank.Stats `json:"stats"`
	Uptime string     `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{
		Status: "ok",
		Stats:  s.backend.Engine().Registry().Stats(),
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// decodeObject reads a JSON object body into its raw fields. It reports false
// when the body is not a JSON object.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// stringField returns fields[key] as a string, or "" when absent or not a string.
func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(fields[key], &s); err != nil {
		return ""
	}
	return s
}

// pendingField returns fields[key] as a follow-up state, or nil when absent,
// null or malformed.
func pendingField(fields map[string]json.RawMessage, key string) *engine.FollowUpState {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var fu *engine.FollowUpState
	if err := json.Unmarshal(raw, &fu); err != nil {
		return nil
	}
	return fu
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
