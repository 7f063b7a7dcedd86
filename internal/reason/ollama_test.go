package reason

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/symptomlab/triagent/internal/model"
)

func TestOllamaProvider_Reason_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected stream=false")
		}
		if req.Format != "json" {
			t.Errorf("Expected format=json, got %q", req.Format)
		}

		resp := ollamaResponse{
			Model:           "llama3.1:8b",
			Response:        `{"assessment": "Symptoms consistent with a cold.", "severity": "Low", "confidence": 0.65, "recommendations": ["Rest"], "when_to_seek_help": "If fever develops."}`,
			Done:            true,
			PromptEvalCount: 50,
			EvalCount:       40,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Reason(context.Background(), Request{Symptoms: "runny nose and sore throat"})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}

	if resp.Severity != model.SeverityLow {
		t.Errorf("Expected Low severity, got %s", resp.Severity)
	}
	if resp.TokensUsed != 90 {
		t.Errorf("Expected 90 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Reason_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Reason(context.Background(), Request{Symptoms: "headache for days"})
	if err == nil {
		t.Fatal("Expected error for missing model")
	}
}

func TestOllamaProvider_Reason_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model crashed"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Reason(context.Background(), Request{Symptoms: "headache for days"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !Retryable(err) {
		t.Errorf("5xx should be retryable, got kind %s", Kind(err))
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
