package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	leadModels "leadgate/internal/domain/models/lead"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastClientConfig() ClientConfig {
	return ClientConfig{
		Attempts:       3,
		InitialBackoff: 5 * time.Millisecond,
		RequestTimeout: time.Second,
	}
}

func testPayload() *leadModels.Payload {
	return &leadModels.Payload{
		SessionID: "sess-1",
		Contact:   leadModels.ContactBlock{FirstName: "Anna", Phone: "0612345678"},
		Meta: leadModels.MetaBlock{
			Language:    "en",
			Disposition: leadModels.DispositionCompleted,
			ExitPoint:   "reached_timeframe_question",
		},
	}
}

func TestSend_SucceedsFirstAttempt(t *testing.T) {
	var calls atomic.Int32
	var received leadModels.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastClientConfig(), testLogger())
	if err := c.Send(context.Background(), testPayload()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if received.SessionID != "sess-1" || received.Contact.Phone != "0612345678" {
		t.Errorf("received payload = %+v", received)
	}
}

func TestSend_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail twice, succeed on the third attempt.
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastClientConfig(), testLogger())
	if err := c.Send(context.Background(), testPayload()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSend_ExhaustsBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, fastClientConfig(), testLogger())
	err := c.Send(context.Background(), testPayload())
	if err == nil {
		t.Fatal("expected an error after exhausting the retry budget")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSend_RespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := fastClientConfig()
	cfg.InitialBackoff = time.Minute // cancellation must beat the backoff wait

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(srv.URL, cfg, testLogger())

	done := make(chan error, 1)
	go func() { done <- c.Send(ctx, testPayload()) }()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return after cancellation")
	}
}

func TestBeacon_PostsInBackground(t *testing.T) {
	received := make(chan leadModels.Payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p leadModels.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	b := NewBeacon(srv.URL, testLogger())
	b.Dispatch(testPayload())

	select {
	case p := <-received:
		if p.SessionID != "sess-1" {
			t.Errorf("session id = %q", p.SessionID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("beacon never reached the endpoint")
	}
}

func TestBeacon_FailureDoesNotPanic(t *testing.T) {
	// No listener at this address; Dispatch must swallow the failure.
	b := NewBeacon("http://127.0.0.1:1/webhook", testLogger())
	b.Dispatch(testPayload())
	time.Sleep(50 * time.Millisecond)
}
