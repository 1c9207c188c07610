package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func TestAnthropicClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name: "text blocks are joined",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/messages" {
					t.Errorf("expected /v1/messages, got %s", r.URL.Path)
				}
				if r.Header.Get("X-Api-Key") != "test-key" {
					t.Errorf("X-Api-Key = %q, want test-key", r.Header.Get("X-Api-Key"))
				}

				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				if body["model"] != "claude-test" {
					t.Errorf("model = %v, want claude-test", body["model"])
				}
				system, _ := body["system"].([]any)
				if len(system) != 1 {
					t.Errorf("system = %v, want one block", body["system"])
				}

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"id": "msg_1",
					"type": "message",
					"role": "assistant",
					"model": "claude-test",
					"content": [
						{"type": "text", "text": "Collaborative teams "},
						{"type": "text", "text": "share norms."}
					],
					"stop_reason": "end_turn",
					"usage": {"input_tokens": 10, "output_tokens": 5}
				}`))
			},
			wantReply: "Collaborative teams share norms.",
		},
		{
			name: "no text content",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"msg_2","type":"message","role":"assistant","model":"claude-test","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
			},
			wantErr: true,
		},
		{
			name: "server error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewAnthropicClient("test-key", "claude-test",
				option.WithBaseURL(server.URL),
				option.WithMaxRetries(0),
			)
			reply, err := client.Complete(context.Background(), "You are a coach.", "What is a PLC?")

			if tt.wantErr {
				if err == nil {
					t.Errorf("Complete() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Complete() unexpected error: %v", err)
			}
			if reply != tt.wantReply {
				t.Errorf("Complete() reply = %q, want %q", reply, tt.wantReply)
			}
		})
	}
}
