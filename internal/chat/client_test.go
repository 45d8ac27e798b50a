package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientRespond(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq completionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"The ERROR spike came from the worker."}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{Endpoint: srv.URL, Model: "test-model", Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	answer, err := client.Respond(context.Background(), "some alert context",
		[]Message{{Role: "user", Content: "what broke?"}})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if answer != "The ERROR spike came from the worker." {
		t.Errorf("answer = %q", answer)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "User Question: what broke?") {
		t.Errorf("prompt not assembled into single user message:\n%s", gotReq.Messages[0].Content)
	}
}

func TestClientRespond_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(Config{Endpoint: srv.URL, Model: "m"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Respond(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error on 503")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("err = %v, want status in message", err)
	}
}

func TestNewClient_RequiresModel(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestClientRespond_ValidationShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client, err := NewClient(Config{Endpoint: srv.URL, Model: "m"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Respond(context.Background(), "", nil); err == nil {
		t.Fatal("expected validation error")
	}
	if called {
		t.Error("invalid conversation must not reach the endpoint")
	}
}
