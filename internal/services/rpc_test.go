package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcHandler func(params []json.RawMessage) (interface{}, error)

// fakeRPC is a minimal JSON-RPC endpoint answering the methods it was given.
type fakeRPC struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string]int
}

func newFakeRPC(t *testing.T, handlers map[string]rpcHandler) *fakeRPC {
	f := &fakeRPC{handlers: handlers, calls: make(map[string]int)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeRPC) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls[req.Method]++
	handler, ok := f.handlers[req.Method]
	f.mu.Unlock()

	response := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		response["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
	} else if result, err := handler(req.Params); err != nil {
		response["error"] = map[string]interface{}{"code": -32000, "message": err.Error()}
	} else {
		response["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func (f *fakeRPC) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}
