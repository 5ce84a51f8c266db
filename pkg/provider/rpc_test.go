package provider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// fakeNode answers JSON-RPC calls from a table of handlers keyed by method
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]func(params json.RawMessage) interface{}
	calls    map[string]int
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	node := &fakeNode{
		handlers: make(map[string]func(json.RawMessage) interface{}),
		calls:    make(map[string]int),
	}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return node, srv
}

func (n *fakeNode) handle(method string, fn func(params json.RawMessage) interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = fn
}

func (n *fakeNode) result(method string, v interface{}) {
	n.handle(method, func(json.RawMessage) interface{} { return v })
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	fn, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if ok {
		resp["result"] = fn(req.Params)
	} else {
		resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found: " + req.Method}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func hexUint(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
