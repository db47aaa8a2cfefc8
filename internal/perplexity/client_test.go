// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/pplx/pkg/types"
)

// withTestServer points the client at an httptest server for one test.
func withTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	orig := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = orig })

	return NewClient(types.APIConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "pplx/test"},
		APIKey:     "test-key",
	})
}

func okResponse() map[string]any {
	return map[string]any{
		"id":    "resp-1",
		"model": "sonar",
		"usage": map[string]int64{
			"prompt_tokens":     12,
			"completion_tokens": 34,
			"total_tokens":      46,
		},
		"choices": []map[string]any{
			{
				"message":       map[string]string{"role": "assistant", "content": "The answer."},
				"finish_reason": "stop",
			},
		},
		"search_results": []map[string]string{
			{"title": "Source A", "url": "https://a.example", "date": "2026-08-01"},
			{"title": "Source B", "url": "https://b.example"},
		},
	}
}

func TestCompleteRequestShape(t *testing.T) {
	var gotReq Request
	var auth, contentType, userAgent string

	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		userAgent = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(okResponse())
	})

	req := Request{
		Model: "sonar-pro",
		Messages: []Message{
			{Role: "system", Content: "Be helpful."},
			{Role: "user", Content: "What is Go?"},
		},
		MaxTokens:           2048,
		Temperature:         0.2,
		SearchMode:          "academic",
		SearchRecencyFilter: "week",
	}
	if _, err := client.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if userAgent != "pplx/test" {
		t.Errorf("User-Agent = %q", userAgent)
	}
	if gotReq.Model != "sonar-pro" || len(gotReq.Messages) != 2 {
		t.Errorf("request body not forwarded: %+v", gotReq)
	}
	if gotReq.SearchMode != "academic" || gotReq.SearchRecencyFilter != "week" {
		t.Errorf("search fields lost: %+v", gotReq)
	}
}

func TestCompleteParsesResponse(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(okResponse())
	})

	answer, err := client.Complete(context.Background(), Request{Model: "sonar"})
	if err != nil {
		t.Fatal(err)
	}

	if answer.Content != "The answer." {
		t.Errorf("content = %q", answer.Content)
	}
	if answer.Model != "sonar" {
		t.Errorf("model = %q", answer.Model)
	}
	if answer.Usage.TotalTokens != 46 || answer.Usage.PromptTokens != 12 {
		t.Errorf("usage = %+v", answer.Usage)
	}
	if len(answer.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(answer.Citations))
	}
	if answer.Citations[0].Title != "Source A" || answer.Citations[0].Date != "2026-08-01" {
		t.Errorf("citation = %+v", answer.Citations[0])
	}
	if answer.Duration <= 0 {
		t.Error("duration not measured")
	}
}

func TestCompleteModelFallsBackToRequest(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := okResponse()
		resp["model"] = ""
		json.NewEncoder(w).Encode(resp)
	})

	answer, err := client.Complete(context.Background(), Request{Model: "sonar-deep-research"})
	if err != nil {
		t.Fatal(err)
	}
	if answer.Model != "sonar-deep-research" {
		t.Errorf("model = %q, want request model", answer.Model)
	}
}

func TestCompleteHTTPError(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid model"}`, http.StatusBadRequest)
	})

	_, err := client.Complete(context.Background(), Request{Model: "bogus"})
	if err == nil {
		t.Fatal("expected an error for HTTP 400")
	}
	if !strings.Contains(err.Error(), "HTTP 400") || !strings.Contains(err.Error(), "invalid model") {
		t.Errorf("error missing status or detail: %v", err)
	}
}

func TestCompleteMalformedJSON(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := client.Complete(context.Background(), Request{Model: "sonar"})
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	client := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := okResponse()
		resp["choices"] = []any{}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := client.Complete(context.Background(), Request{Model: "sonar"})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected a no-choices error, got %v", err)
	}
}
