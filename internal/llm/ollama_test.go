package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Audit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("audit must not stream")
		}

		resp := ollamaResponse{
			Model:    req.Model,
			Response: `[{"text": "local gap", "model_index": 2, "score": 0.4}]`,
			Done:     true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	audit, err := provider.Audit(context.Background(), AuditRequest{})
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if audit.Provider != "ollama" || audit.Model != defaultOllamaModel {
		t.Errorf("unexpected audit envelope: %+v", audit)
	}
	if len(audit.UnindexedStatements) != 1 || audit.UnindexedStatements[0].Text != "local gap" {
		t.Errorf("unexpected statements: %v", audit.UnindexedStatements)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("reachable server must report available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("closed server must report unavailable")
	}
}
