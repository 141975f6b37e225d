package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key-123" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-123")
	id, err := c.Send(context.Background(), Message{
		From:    "studio@example.com",
		To:      "inbox@example.com",
		Subject: "hello",
		Text:    "body",
		ReplyTo: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if id != "msg-1" {
		t.Fatalf("expected message id msg-1, got %q", id)
	}

	if got["reply_to"] != "jane@example.com" {
		t.Fatalf("expected reply_to key, got payload %v", got)
	}
	if _, exists := got["replyTo"]; exists {
		t.Fatalf("legacy key should not be sent by default")
	}
}

func TestClientSendLegacyReplyKey(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"msg-2"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-123")
	_, err := c.Send(context.Background(), Message{
		From: "a@b.c", To: "d@e.f", Subject: "s",
		ReplyTo:           "jane@example.com",
		UseLegacyReplyKey: true,
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if got["replyTo"] != "jane@example.com" {
		t.Fatalf("expected replyTo key, got payload %v", got)
	}
}

func TestClientSendUnsupportedReplyField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"unknown field reply_to"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-123")
	_, err := c.Send(context.Background(), Message{From: "a@b.c", To: "d@e.f", Subject: "s", ReplyTo: "x@y.z"})
	if !IsUnsupportedReplyField(err) {
		t.Fatalf("expected UnsupportedReplyFieldError, got %v", err)
	}
}

func TestClientSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"provider exploded"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-123")
	_, err := c.Send(context.Background(), Message{From: "a@b.c", To: "d@e.f", Subject: "s"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsUnsupportedReplyField(err) {
		t.Fatalf("plain 500 should not be classified as unsupported field")
	}
	if err.Error() != "provider exploded" {
		t.Fatalf("expected provider message surfaced, got %q", err.Error())
	}
}
