package reason

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/symptomlab/triagent/internal/model"
)

func openAITestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 120},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_Reason_Success(t *testing.T) {
	server := openAITestServer(t, `{"assessment": "Likely tension headache.", "severity": "Low", "confidence": 0.8, "recommendations": ["Rest", "Hydrate"], "when_to_seek_help": "If pain becomes severe or sudden."}`)
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Reason(context.Background(), Request{
		Symptoms: "I have a headache for 2 days, mild pain",
	})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}

	if resp.Assessment != "Likely tension headache." {
		t.Errorf("Unexpected assessment: %s", resp.Assessment)
	}
	if resp.Severity != model.SeverityLow {
		t.Errorf("Expected Low severity, got %s", resp.Severity)
	}
	if resp.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %v", resp.Confidence)
	}
	if len(resp.Recommendations) != 2 {
		t.Errorf("Expected 2 recommendations, got %v", resp.Recommendations)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("Expected 120 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Reason_CodeFencedJSON(t *testing.T) {
	server := openAITestServer(t, "```json\n{\"assessment\": \"Viral infection likely.\", \"severity\": \"Medium\", \"confidence\": 0.7, \"recommendations\": [], \"when_to_seek_help\": \"High fever.\"}\n```")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Reason(context.Background(), Request{Symptoms: "fever and chills for a day"})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if resp.Severity != model.SeverityMedium {
		t.Errorf("Expected Medium severity, got %s", resp.Severity)
	}
}

func TestOpenAIProvider_Reason_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Reason(context.Background(), Request{Symptoms: "headache for days"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if Kind(err) != KindAuth {
		t.Errorf("Expected auth error kind, got %s", Kind(err))
	}
	if Retryable(err) {
		t.Error("Auth failures must not be retryable")
	}
}

func TestOpenAIProvider_Reason_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Reason(context.Background(), Request{Symptoms: "headache for days"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if Kind(err) != KindQuota {
		t.Errorf("Expected quota error kind, got %s", Kind(err))
	}
	if Retryable(err) {
		t.Error("Quota failures must not be retryable")
	}
}

func TestOpenAIProvider_Reason_MalformedPayload(t *testing.T) {
	server := openAITestServer(t, "I think you should see a doctor about that.")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Reason(context.Background(), Request{Symptoms: "headache for days"})
	if err == nil {
		t.Fatal("Expected error for non-JSON payload, got nil")
	}
	if Kind(err) != KindBadResponse {
		t.Errorf("Expected bad_response error kind, got %s", Kind(err))
	}
}

func TestOpenAIProvider_Reason_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = provider.Reason(ctx, Request{Symptoms: "headache for days"})
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
	if !Retryable(err) {
		t.Errorf("Timeouts should be retryable, got kind %s", Kind(err))
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}
