package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicProvider_Audit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("unexpected api key header %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "[{\"text\": \"gap\", \"model_index\": 0, \"score\": 0.6}]"}],
			"model": "claude-3-5-haiku-20241022",
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	audit, err := provider.Audit(context.Background(), AuditRequest{})
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if audit.Provider != "anthropic" {
		t.Errorf("unexpected provider %s", audit.Provider)
	}
	if len(audit.UnindexedStatements) != 1 || audit.UnindexedStatements[0].Text != "gap" {
		t.Errorf("unexpected statements: %v", audit.UnindexedStatements)
	}
}

func TestAnthropicProvider_Audit_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid key"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	if _, err := provider.Audit(context.Background(), AuditRequest{}); err == nil {
		t.Error("API error must propagate")
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Error("missing API key must fail")
	}
}
