// Package llmtest provides a fake OpenAI-compatible chat completions server
// that records every request it receives.
package llmtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Message is one decoded request message.
type Message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Text returns the message content whether it was sent as a string or as
// an array of text parts.
func (m Message) Text() string {
	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(m.Content, &parts); err == nil {
		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(p.Text)
		}
		return sb.String()
	}
	return string(m.Content)
}

// Request is a recorded chat completion request.
type Request struct {
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string

	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   *int64    `json:"max_tokens"`
	Temperature *float64  `json:"temperature"`
	Stream      *bool     `json:"stream"`
}

// Server is an httptest server speaking the chat completions protocol.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// New starts a server answering with handler and registers cleanup on t.
func New(t testing.TB, handler http.HandlerFunc) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Path = r.URL.Path
		req.RawQuery = r.URL.RawQuery
		req.Authorization = r.Header.Get("Authorization")
		req.ContentType = r.Header.Get("Content-Type")

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// CompletionsURL is the full chat completions endpoint of the server.
func (s *Server) CompletionsURL() string {
	return s.URL + "/v1/chat/completions"
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reply answers every request with a single choice holding content.
func Reply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []any{
				map[string]any{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}
}

// Status answers every request with code and an OpenAI-style error body.
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, code, map[string]any{
			"error": map[string]any{
				"message": fmt.Sprintf("upstream failure %d", code),
				"type":    "server_error",
			},
		})
	}
}

// Raw answers every request with a 200 and the given JSON body.
func Raw(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	}
}

// ClosedURL returns a completions URL on which nothing is listening.
func ClosedURL(t testing.TB) string {
	t.Helper()
	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL + "/v1/chat/completions"
	s.Close()
	return url
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
