// Package backendtest provides an in-process stand-in for an OpenAI-compatible
// inference backend, for tests that need a real streaming HTTP peer.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// ChatPath and HealthPath are the routes the server answers on.
const (
	ChatPath   = "/v1/chat/completions"
	HealthPath = "/health"
)

// Response configures how the server answers chat requests.
type Response struct {
	// StatusCode defaults to 200.
	StatusCode int

	// Events are written one by one as "data: <event>\n\n" and flushed.
	// A final "data: [DONE]" follows unless the stream is aborted or held.
	Events []string

	// Raw, when set, is written verbatim instead of Events.
	Raw []byte

	// Interval is the pause before each event.
	Interval time.Duration

	// AbortAfter, when positive, drops the connection after that many
	// events without terminating the body.
	AbortAfter int

	// Hold keeps the response open after the events until the client goes
	// away.
	Hold bool
}

// Server is a mock streaming backend.
type Server struct {
	server *httptest.Server

	mu           sync.Mutex
	response     Response
	healthStatus int
	requests     int
	lastBody     map[string]any
	lastHeader   http.Header

	disconnected chan struct{}
}

// NewServer starts a server that streams two chat chunks by default.
func NewServer() *Server {
	s := &Server{
		response: Response{
			Events: []string{ChatChunk("Hel"), ChatChunk("lo")},
		},
		healthStatus: http.StatusOK,
		disconnected: make(chan struct{}, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(ChatPath, s.handleChat)
	mux.HandleFunc(HealthPath, s.handleHealth)
	s.server = httptest.NewServer(mux)

	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.server.CloseClientConnections()
	s.server.Close()
}

// SetResponse replaces the chat response.
func (s *Server) SetResponse(r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = r
}

// SetHealthStatus sets the status returned by the health endpoint.
func (s *Server) SetHealthStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthStatus = code
}

// RequestCount returns the number of chat requests received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// LastBody returns the decoded JSON body of the most recent chat request.
func (s *Server) LastBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

// LastHeader returns the headers of the most recent chat request.
func (s *Server) LastHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeader
}

// Disconnected receives a value each time a held response sees its client go
// away.
func (s *Server) Disconnected() <-chan struct{} {
	return s.disconnected
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	code := s.healthStatus
	s.mu.Unlock()
	w.WriteHeader(code)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	s.mu.Lock()
	s.requests++
	s.lastBody = body
	s.lastHeader = r.Header.Clone()
	resp := s.response
	s.mu.Unlock()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	flusher.Flush()

	if resp.Raw != nil {
		_, _ = w.Write(resp.Raw)
		return
	}

	for i, event := range resp.Events {
		if resp.AbortAfter > 0 && i == resp.AbortAfter {
			s.abort(w)
			return
		}
		if resp.Interval > 0 {
			time.Sleep(resp.Interval)
		}
		fmt.Fprintf(w, "data: %s\n\n", event)
		flusher.Flush()
	}

	if resp.AbortAfter > 0 {
		s.abort(w)
		return
	}

	if resp.Hold {
		<-r.Context().Done()
		s.disconnected <- struct{}{}
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// abort drops the connection mid-body so the client sees a truncated stream.
func (s *Server) abort(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("backendtest: response writer cannot be hijacked")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(fmt.Sprintf("backendtest: hijack failed: %v", err))
	}
	conn.Close()
}

// ChatChunk renders one chat-completion stream event carrying content.
func ChatChunk(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion.chunk",
		"model":  "TinyLlama/TinyLlama-1.1B-Chat-v1.0",
		"choices": []map[string]any{{
			"index": 0,
			"delta": map[string]string{"content": content},
		}},
	})
	return string(b)
}
