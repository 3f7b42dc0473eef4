// Package wallettest provides an in-process JSON-RPC wallet for tests.
package wallettest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
)

// Request is a decoded JSON-RPC call.
type Request struct {
	Method string
	Params []json.RawMessage
}

// Error is returned by a Handler to answer with a JSON-RPC error object.
// It also satisfies rpc.Error, so mocks can return it directly.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string  { return e.Message }
func (e *Error) ErrorCode() int { return e.Code }

// Handler answers one call. Returning a non-nil *Error sends an error response.
type Handler func(req Request) (interface{}, *Error)

// Server records every call it receives.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	calls []Request
}

// NewServer starts a wallet endpoint backed by handler and closes it when the test ends.
func NewServer(t testing.TB, handler Handler) *Server {
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		call := Request{Method: req.Method, Params: req.Params}
		s.mu.Lock()
		s.calls = append(s.calls, call)
		s.mu.Unlock()

		result, rpcErr := handler(call)
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if rpcErr != nil {
			resp["error"] = map[string]interface{}{
				"code":    rpcErr.Code,
				"message": rpcErr.Message,
			}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(s.Close)
	return s
}

// Dial returns an rpc client for the server.
func (s *Server) Dial(t testing.TB) *rpc.Client {
	client, err := rpc.DialHTTP(s.URL)
	if err != nil {
		t.Fatalf("dial wallet server: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

// Calls returns the recorded calls in order.
func (s *Server) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times method was called.
func (s *Server) CallCount(method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}
